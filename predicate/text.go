package predicate

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the textual form of time values. It is the form the embedded
// SQLite driver stores times in.
const TimeLayout = "2006-01-02 15:04:05.999999999-07:00"

// Text returns the textual form of v used by the textual operators. It is the
// text SQLite yields for CAST(v AS TEXT) of a stored value:
//
//   - booleans are 1 and 0
//   - integers are written in base 10
//   - floats keep up to 15 significant digits and at least one fractional
//     digit, so 10.0 is "10.0" and 1e20 is "1.0e+20"
//   - times are written with [TimeLayout]
//   - byte slices are read as strings and nil is empty
//
// Other values use fmt.Sprint.
func Text(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case float32:
		return floatText(float64(v))
	case float64:
		return floatText(v)
	case time.Time:
		return v.Format(TimeLayout)
	}
	return fmt.Sprint(v)
}

func floatText(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'g', 15, 64)
	if strings.ContainsRune(s, '.') {
		return s
	}
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		return s[:i] + ".0" + s[i:]
	}
	return s + ".0"
}
