package preview

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/syssam/crudgen/predicate"
	"github.com/syssam/crudgen/schema"
)

// DecodeRows reads a YAML (or JSON) list of sample rows.
func DecodeRows(r io.Reader) ([]predicate.Map, error) {
	var rows []map[string]any
	if err := yaml.NewDecoder(r).Decode(&rows); err != nil && err != io.EOF {
		return nil, fmt.Errorf("preview: decode rows: %w", err)
	}
	out := make([]predicate.Map, len(rows))
	for i, row := range rows {
		out[i] = predicate.Map(row)
	}
	return out, nil
}

// DecodeCriteria reads a YAML (or JSON) list of search criteria.
func DecodeCriteria(r io.Reader) ([]predicate.Criterion, error) {
	var criteria []predicate.Criterion
	if err := yaml.NewDecoder(r).Decode(&criteria); err != nil && err != io.EOF {
		return nil, fmt.Errorf("preview: decode criteria: %w", err)
	}
	return criteria, nil
}

// dateLayouts are the accepted textual forms of date values.
var dateLayouts = []string{time.DateOnly, time.RFC3339Nano, time.DateTime, "2006-01-02 15:04:05.999999999-07:00"}

// coerce converts a decoded or scanned value to the Go type of t.
func coerce(t schema.Type, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	switch t {
	case schema.Text:
		if s, ok := v.(string); ok {
			return s, nil
		}
		if tm, ok := v.(time.Time); ok {
			return tm.Format(time.DateOnly), nil
		}
		return fmt.Sprint(v), nil
	case schema.Integer:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int64:
			return n, nil
		case uint64:
			if n <= math.MaxInt64 {
				return int64(n), nil
			}
		case float64:
			if n == math.Trunc(n) {
				return int64(n), nil
			}
		case string:
			return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		}
	case schema.Decimal:
		switch n := v.(type) {
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		case float64:
			return n, nil
		case string:
			return strconv.ParseFloat(strings.TrimSpace(n), 64)
		}
	case schema.Boolean:
		switch b := v.(type) {
		case bool:
			return b, nil
		case int:
			return b != 0, nil
		case int64:
			return b != 0, nil
		case string:
			return strconv.ParseBool(strings.TrimSpace(b))
		}
	case schema.Date:
		switch d := v.(type) {
		case time.Time:
			return d.UTC(), nil
		case string:
			for _, layout := range dateLayouts {
				if tm, err := time.Parse(layout, strings.TrimSpace(d)); err == nil {
					return tm.UTC(), nil
				}
			}
		}
	}
	return nil, fmt.Errorf("preview: %v (%T) is not a valid %s value", v, v, t)
}
