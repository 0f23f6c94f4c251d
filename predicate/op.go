package predicate

import "strings"

// Op is a search operator.
type Op uint8

// Operators. OpNone is the explicit "no condition" case every unrecognized
// operator decodes to.
const (
	OpNone Op = iota
	OpEQ
	OpNEQ
	OpLike
	OpLT
	OpLTE
	OpGT
	OpGTE
	endOps
)

var ops = [...]struct {
	name    string
	sql     string
	textual bool
}{
	OpNone: {name: "none"},
	OpEQ:   {name: "eq", sql: "="},
	OpNEQ:  {name: "neq", sql: "<>"},
	OpLike: {name: "like", sql: "LIKE", textual: true},
	OpLT:   {name: "lt", sql: "<", textual: true},
	OpLTE:  {name: "lte", sql: "<=", textual: true},
	OpGT:   {name: "gt", sql: ">", textual: true},
	OpGTE:  {name: "gte", sql: ">=", textual: true},
}

// ParseOp parses an operator name. It never fails: unknown names are OpNone.
func ParseOp(s string) Op {
	name := strings.ToLower(strings.TrimSpace(s))
	for op := OpEQ; op < endOps; op++ {
		if ops[op].name == name {
			return op
		}
	}
	return OpNone
}

// Ops returns the recognized operators.
func Ops() []Op {
	out := make([]Op, 0, endOps-1)
	for op := OpEQ; op < endOps; op++ {
		out = append(out, op)
	}
	return out
}

// normalize maps out of range values to OpNone.
func (o Op) normalize() Op {
	if o >= endOps {
		return OpNone
	}
	return o
}

// String returns the wire name of the operator.
func (o Op) String() string {
	return ops[o.normalize()].name
}

// SQL returns the SQL comparison operator. Like returns "LIKE"; dialects
// may substitute their own keyword.
func (o Op) SQL() string {
	return ops[o.normalize()].sql
}

// Textual reports if the operator compares the textual representation of
// the value instead of the native value.
func (o Op) Textual() bool {
	return ops[o.normalize()].textual
}

// Ordering reports if the operator is one of lt, lte, gt, gte.
func (o Op) Ordering() bool {
	switch o {
	case OpLT, OpLTE, OpGT, OpGTE:
		return true
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (o Op) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode to
// OpNone without error.
func (o *Op) UnmarshalText(b []byte) error {
	*o = ParseOp(string(b))
	return nil
}
