package predicate

import (
	"reflect"
	"strings"
	"time"
)

// Record gives access to the fields of a record by name.
type Record interface {
	Field(name string) (any, bool)
}

// Map is a Record backed by a map.
type Map map[string]any

// Field implements Record.
func (m Map) Field(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// RecordFunc adapts a lookup function to a Record.
type RecordFunc func(name string) (any, bool)

// Field implements Record.
func (f RecordFunc) Field(name string) (any, bool) {
	return f(name)
}

// Match reports if the record satisfies every term of p. A term on a missing
// or nil field never matches, like a comparison with SQL NULL.
func (p Predicate) Match(r Record) bool {
	for _, t := range p.terms {
		v, ok := r.Field(t.Field)
		if !ok || v == nil || !t.match(v) {
			return false
		}
	}
	return true
}

// Filter returns the records matching p, preserving order.
func Filter[R Record](p Predicate, records []R) []R {
	var out []R
	for _, r := range records {
		if p.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func (t Term) match(v any) bool {
	switch t.Op {
	case OpEQ:
		return equal(v, t.Value)
	case OpNEQ:
		// A comparison with NULL is never true.
		return t.Value != nil && !equal(v, t.Value)
	case OpLike:
		s, ok := v.(string)
		if !ok {
			return false
		}
		return like(s, "%"+t.Value.(string)+"%")
	case OpLT, OpLTE, OpGT, OpGTE:
		c := strings.Compare(Text(v), t.Value.(string))
		switch t.Op {
		case OpLT:
			return c < 0
		case OpLTE:
			return c <= 0
		case OpGT:
			return c > 0
		default:
			return c >= 0
		}
	}
	return false
}

// equal compares natively. Numbers of different Go kinds are compared by
// value and times with time.Time.Equal.
func equal(a, b any) bool {
	if b == nil {
		return false
	}
	if x, ok := number(a); ok {
		y, ok := number(b)
		return ok && x == y
	}
	if x, ok := a.(time.Time); ok {
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	}
	return reflect.DeepEqual(a, b)
}

func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// like implements SQL LIKE: % matches any run of characters, _ matches a
// single character and letters compare ASCII case-insensitively.
func like(s, pattern string) bool {
	sr, pr := []rune(s), []rune(pattern)
	// star is the pattern position after the last %, mark the matching input position.
	si, pi, star, mark := 0, 0, -1, 0
	for si < len(sr) {
		switch {
		case pi < len(pr) && pr[pi] == '%':
			star, mark = pi+1, si
			pi++
		case pi < len(pr) && (pr[pi] == '_' || foldASCII(pr[pi]) == foldASCII(sr[si])):
			si++
			pi++
		case star >= 0:
			mark++
			si, pi = mark, star
		default:
			return false
		}
	}
	for pi < len(pr) && pr[pi] == '%' {
		pi++
	}
	return pi == len(pr)
}

func foldASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + 'a' - 'A'
	}
	return r
}
