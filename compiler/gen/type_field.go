package gen

import (
	"github.com/syssam/crudgen/schema"
)

// StructField returns the struct member name of the field.
func (f *Field) StructField() string {
	return pascal(snake(f.Name))
}

// Column returns the column name of the field.
func (f *Field) Column() string {
	return snake(f.Name)
}

// JSONKey returns the JSON key of the field.
func (f *Field) JSONKey() string {
	return f.Name
}

// IsText reports if the field holds text.
func (f *Field) IsText() bool { return f.Type == schema.Text }
