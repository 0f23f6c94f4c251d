package schema

import (
	"regexp"
	"slices"
)

// Attribute is one declared attribute of the entity.
type Attribute struct {
	Name     string `yaml:"name" json:"name"`
	Type     Type   `yaml:"type" json:"type"`
	Identity bool   `yaml:"identity,omitempty" json:"identity,omitempty"`
}

// Attr returns a regular attribute.
func Attr(name string, t Type) Attribute {
	return Attribute{Name: name, Type: t}
}

// Key returns an attribute flagged as the identity.
func Key(name string, t Type) Attribute {
	return Attribute{Name: name, Type: t, Identity: true}
}

// Schema is the immutable description of one entity.
type Schema struct {
	entity string
	table  string
	attrs  []Attribute
	id     int
}

var nameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// New validates the attributes and returns the schema. The table name may be
// empty; generators then derive it from the entity name.
func New(entity, table string, attrs ...Attribute) (*Schema, error) {
	if !nameRE.MatchString(entity) {
		return nil, &SchemaError{Entity: entity, Kind: ErrInvalidName}
	}
	if table != "" && !nameRE.MatchString(table) {
		return nil, &SchemaError{Entity: entity, Attribute: table, Kind: ErrInvalidName}
	}
	seen := make(map[string]struct{}, len(attrs))
	for _, a := range attrs {
		if !nameRE.MatchString(a.Name) {
			return nil, &SchemaError{Entity: entity, Attribute: a.Name, Kind: ErrInvalidName}
		}
		if !a.Type.Valid() {
			return nil, &SchemaError{Entity: entity, Attribute: a.Name, Kind: ErrInvalidType}
		}
		if _, ok := seen[a.Name]; ok {
			return nil, &SchemaError{Entity: entity, Attribute: a.Name, Kind: ErrDuplicateAttributeName}
		}
		seen[a.Name] = struct{}{}
	}
	id, err := ResolveIdentity(attrs)
	if err != nil {
		return nil, &SchemaError{Entity: entity, Kind: ErrEmptyAttributeList}
	}
	return &Schema{
		entity: entity,
		table:  table,
		attrs:  slices.Clone(attrs),
		id:     id,
	}, nil
}

// ResolveIdentity returns the index of the identity attribute: the first
// flagged attribute in declaration order, or the first attribute when none is
// flagged.
func ResolveIdentity(attrs []Attribute) (int, error) {
	if len(attrs) == 0 {
		return -1, &SchemaError{Kind: ErrEmptyAttributeList}
	}
	if i := slices.IndexFunc(attrs, func(a Attribute) bool { return a.Identity }); i >= 0 {
		return i, nil
	}
	return 0, nil
}

// Entity returns the entity name.
func (s *Schema) Entity() string { return s.entity }

// Table returns the declared table name, possibly empty.
func (s *Schema) Table() string { return s.table }

// Attributes returns a copy of the attributes in declaration order. Only the
// resolved identity has Identity set.
func (s *Schema) Attributes() []Attribute {
	attrs := slices.Clone(s.attrs)
	for i := range attrs {
		attrs[i].Identity = i == s.id
	}
	return attrs
}

// Len returns the number of attributes.
func (s *Schema) Len() int { return len(s.attrs) }

// IdentityIndex returns the index of the resolved identity attribute.
func (s *Schema) IdentityIndex() int { return s.id }

// Identity returns the resolved identity attribute.
func (s *Schema) Identity() Attribute {
	a := s.attrs[s.id]
	a.Identity = true
	return a
}

// Attribute returns the attribute with the given name.
func (s *Schema) Attribute(name string) (Attribute, bool) {
	for i, a := range s.attrs {
		if a.Name == name {
			a.Identity = i == s.id
			return a, true
		}
	}
	return Attribute{}, false
}
