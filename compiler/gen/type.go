package gen

import (
	"github.com/syssam/crudgen/schema"
)

// Entity is the resolved view of a schema shared by every artifact
// generator. Names, types and attribute order are computed once here so all
// artifacts reference the entity identically.
type Entity struct {
	// Name is the Go type name of the entity, e.g. "Resultado".
	Name string
	// Table is the SQL table name.
	Table string
	// Route is the HTTP collection path, e.g. "/resultados".
	Route string
	// Fields holds all attributes in declaration order.
	Fields []*Field
	// ID is the identity field. It is also present in Fields.
	ID *Field

	schema *schema.Schema
}

// Field is a resolved attribute of an entity.
type Field struct {
	// Name is the declared attribute name. It is also the JSON key and the
	// search criteria key.
	Name string
	// Type is the semantic type tag.
	Type schema.Type
	// Position is the declaration index.
	Position int
	// Identity reports if the field is the entity identity.
	Identity bool
}

// NewEntity resolves a schema. It fails if two attributes map to the same Go
// struct field or column name.
func NewEntity(s *schema.Schema) (*Entity, error) {
	e := &Entity{
		Name:   pascal(snake(s.Entity())),
		Table:  s.Table(),
		schema: s,
	}
	if e.Table == "" {
		e.Table = plural(snake(s.Entity()))
	}
	e.Route = "/" + kebab(plural(snake(s.Entity())))
	var (
		structs = make(map[string]string)
		columns = make(map[string]string)
	)
	for i, a := range s.Attributes() {
		f := &Field{Name: a.Name, Type: a.Type, Position: i, Identity: a.Identity}
		if prev, ok := structs[f.StructField()]; ok {
			return nil, NewValidationError(e.Name, f.Name, f.StructField(), "struct field collides with attribute "+prev)
		}
		if prev, ok := columns[f.Column()]; ok {
			return nil, NewValidationError(e.Name, f.Name, f.Column(), "column collides with attribute "+prev)
		}
		structs[f.StructField()] = f.Name
		columns[f.Column()] = f.Name
		e.Fields = append(e.Fields, f)
		if f.Identity {
			e.ID = f
		}
	}
	return e, nil
}

// Schema returns the schema the entity was resolved from.
func (e *Entity) Schema() *schema.Schema { return e.schema }

// Receiver returns the receiver name used by generated methods.
func (e *Entity) Receiver() string { return receiver(e.Name) }

// Label returns the lower-case entity name used in messages.
func (e *Entity) Label() string { return snake(e.Name) }

// FileName returns the base file name of per-entity artifacts, without extension.
func (e *Entity) FileName() string { return snake(e.Name) }

// MutableFields returns the fields an update may change, in order.
func (e *Entity) MutableFields() []*Field {
	fields := make([]*Field, 0, len(e.Fields)-1)
	for _, f := range e.Fields {
		if !f.Identity {
			fields = append(fields, f)
		}
	}
	return fields
}

// Columns returns the column names in declaration order.
func (e *Entity) Columns() []string {
	cols := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		cols[i] = f.Column()
	}
	return cols
}

// Field returns the field of an attribute name.
func (e *Entity) Field(name string) (*Field, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// TextField returns the first non-identity text field, falling back to the
// first text field.
func (e *Entity) TextField() (*Field, bool) {
	var first *Field
	for _, f := range e.Fields {
		if f.Type != schema.Text {
			continue
		}
		if !f.Identity {
			return f, true
		}
		if first == nil {
			first = f
		}
	}
	return first, first != nil
}
