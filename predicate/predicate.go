package predicate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Criterion is a single search condition. The JSON shape is
// {"key": ..., "operation": ..., "value": ...}.
type Criterion struct {
	Field string `json:"key" yaml:"key"`
	Op    Op     `json:"operation" yaml:"operation"`
	Value any    `json:"value" yaml:"value"`
}

// UnmarshalJSON implements json.Unmarshaler. Integral numbers decode to
// int64 and other numbers to float64, so a value keeps the textual form it
// was written in.
func (c *Criterion) UnmarshalJSON(b []byte) error {
	type plain Criterion
	var raw struct {
		plain
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*c = Criterion(raw.plain)
	c.Value = nil
	if len(raw.Value) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw.Value))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			v = i
		} else if f, err := n.Float64(); err == nil {
			v = f
		}
	}
	c.Value = v
	return nil
}

// Term is an atomic comparison of a predicate. Op is never OpNone. For
// textual operators Value holds the string form of the criterion value.
type Term struct {
	Field string
	Op    Op
	Value any
}

// Predicate is an immutable conjunction of terms. The zero value is the
// empty conjunction and matches everything.
type Predicate struct {
	terms []Term
}

// Build combines the criteria with logical AND.
func Build(criteria []Criterion) Predicate {
	var terms []Term
	for _, c := range criteria {
		switch op := c.Op.normalize(); op {
		case OpEQ, OpNEQ:
			terms = append(terms, Term{Field: c.Field, Op: op, Value: c.Value})
		case OpLike, OpLT, OpLTE, OpGT, OpGTE:
			terms = append(terms, Term{Field: c.Field, Op: op, Value: Text(c.Value)})
		case OpNone:
			// Unrecognized operators add no condition.
		}
	}
	return Predicate{terms: terms}
}

// Terms returns a copy of the terms.
func (p Predicate) Terms() []Term {
	return slices.Clone(p.terms)
}

// Len returns the number of terms.
func (p Predicate) Len() int {
	return len(p.terms)
}

// Empty reports if p is the always-true predicate.
func (p Predicate) Empty() bool {
	return len(p.terms) == 0
}

// And returns the conjunction of p and q.
func (p Predicate) And(q Predicate) Predicate {
	if q.Empty() {
		return p
	}
	if p.Empty() {
		return q
	}
	return Predicate{terms: append(slices.Clone(p.terms), q.terms...)}
}

// Fields returns the distinct field names referenced by p, in order.
func (p Predicate) Fields() []string {
	var fields []string
	for _, t := range p.terms {
		if !slices.Contains(fields, t.Field) {
			fields = append(fields, t.Field)
		}
	}
	return fields
}

// String returns a readable form of the predicate.
func (p Predicate) String() string {
	if p.Empty() {
		return "TRUE"
	}
	parts := make([]string, len(p.terms))
	for i, t := range p.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " AND ")
}

// String implements fmt.Stringer.
func (t Term) String() string {
	switch v := t.Value.(type) {
	case string:
		if t.Op == OpLike {
			v = "%" + v + "%"
		}
		return fmt.Sprintf("%s %s %q", t.Field, t.Op.SQL(), v)
	default:
		return fmt.Sprintf("%s %s %v", t.Field, t.Op.SQL(), v)
	}
}
