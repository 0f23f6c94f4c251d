package schema

import (
	"fmt"
	"strings"
)

// Type is the semantic type tag of an attribute.
type Type uint8

// Attribute types.
const (
	TypeInvalid Type = iota
	Text
	Integer
	Decimal
	Boolean
	Date
	endTypes
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	Text:        "text",
	Integer:     "integer",
	Decimal:     "decimal",
	Boolean:     "boolean",
	Date:        "date",
}

// aliases accepted by ParseType besides the canonical tag names.
var typeAliases = map[string]Type{
	"string":     Text,
	"int":        Integer,
	"long":       Integer,
	"int64":      Integer,
	"double":     Decimal,
	"float":      Decimal,
	"float64":    Decimal,
	"bigdecimal": Decimal,
	"bool":       Boolean,
	"localdate":  Date,
	"time":       Date,
}

// String returns the canonical tag of the type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the type is one of the known attribute types.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Numeric reports if the type holds numbers.
func (t Type) Numeric() bool {
	return t == Integer || t == Decimal
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseType parses a type tag. Matching is case-insensitive and also accepts
// the common language spellings (String, Long, LocalDate, ...).
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t := Text; t < endTypes; t++ {
		if typeNames[t] == name {
			return t, nil
		}
	}
	if t, ok := typeAliases[name]; ok {
		return t, nil
	}
	return TypeInvalid, fmt.Errorf("crudgen: unknown attribute type %q", s)
}

// Types returns all valid attribute types in declaration order.
func Types() []Type {
	ts := make([]Type, 0, endTypes-1)
	for t := Text; t < endTypes; t++ {
		ts = append(ts, t)
	}
	return ts
}
