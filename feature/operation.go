// Package feature holds the feature selection of a crudgen project: which
// operations are exposed, which persistence backend is used and which
// optional dependencies are added to the generated build manifest.
package feature

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSelection is wrapped by every error returned while building a Selection.
var ErrInvalidSelection = errors.New("crudgen: invalid feature selection")

// Operation is an operation exposed by the generated service.
type Operation uint8

// Operations in their canonical order.
const (
	Create Operation = iota + 1
	ReadByID
	Update
	Delete
	Search
	endOperations
)

var opNames = [...]string{
	Create:   "create",
	ReadByID: "read",
	Update:   "update",
	Delete:   "delete",
	Search:   "search",
}

// String returns the operation name.
func (o Operation) String() string {
	if o > 0 && o < endOperations {
		return opNames[o]
	}
	return fmt.Sprintf("Operation(%d)", o)
}

// Valid reports if o is a known operation.
func (o Operation) Valid() bool {
	return o > 0 && o < endOperations
}

// MarshalText implements encoding.TextMarshaler.
func (o Operation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Operation) UnmarshalText(b []byte) error {
	v, err := ParseOperation(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// ParseOperation parses an operation name.
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "create", "post":
		return Create, nil
	case "read", "get", "get_by_id", "readbyid":
		return ReadByID, nil
	case "update", "put":
		return Update, nil
	case "delete":
		return Delete, nil
	case "search":
		return Search, nil
	}
	return 0, fmt.Errorf("%w: unknown operation %q", ErrInvalidSelection, s)
}

// AllOperations returns every operation in canonical order.
func AllOperations() []Operation {
	return []Operation{Create, ReadByID, Update, Delete, Search}
}

// Backend is the persistence backend of the generated project.
type Backend uint8

// Persistence backends.
const (
	// Embedded is an in-process database file.
	Embedded Backend = iota
	// External is a database server reached over the network.
	External
)

// String returns the backend name.
func (b Backend) String() string {
	switch b {
	case Embedded:
		return "embedded"
	case External:
		return "external"
	}
	return fmt.Sprintf("Backend(%d)", b)
}

// MarshalText implements encoding.TextMarshaler.
func (b Backend) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Backend) UnmarshalText(text []byte) error {
	v, err := ParseBackend(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// ParseBackend parses a backend name. The database names of each backend are
// accepted as aliases.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "embedded", "sqlite", "h2":
		return Embedded, nil
	case "external", "mysql":
		return External, nil
	}
	return 0, fmt.Errorf("%w: unknown backend %q", ErrInvalidSelection, s)
}
