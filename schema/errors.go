package schema

import (
	"errors"
	"strings"
)

// Sentinel errors for schema construction.
var (
	// ErrInvalidSchema is matched by every *SchemaError.
	ErrInvalidSchema = errors.New("crudgen: invalid schema")
	// ErrEmptyAttributeList is returned when no attributes are supplied.
	ErrEmptyAttributeList = errors.New("empty attribute list")
	// ErrDuplicateAttributeName is returned when two attributes share a name.
	ErrDuplicateAttributeName = errors.New("duplicate attribute name")
	// ErrInvalidName is returned for empty or non-identifier names.
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidType is returned for attributes without a known type.
	ErrInvalidType = errors.New("invalid attribute type")
)

// SchemaError describes why a schema could not be built. Kind is one of the
// package sentinels above, so both errors.Is(err, ErrInvalidSchema) and
// errors.Is(err, ErrEmptyAttributeList) hold for an empty schema.
type SchemaError struct {
	Entity    string
	Attribute string
	Kind      error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("crudgen: schema error")
	if e.Entity != "" {
		b.WriteString(" on entity ")
		b.WriteString(e.Entity)
	}
	if e.Attribute != "" {
		b.WriteString(" attribute ")
		b.WriteString(e.Attribute)
	}
	if e.Kind != nil {
		b.WriteString(": ")
		b.WriteString(e.Kind.Error())
	}
	return b.String()
}

// Unwrap returns the error kind.
func (e *SchemaError) Unwrap() error {
	return e.Kind
}

// Is reports whether the target matches ErrInvalidSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}
