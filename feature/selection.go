package feature

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Selection is an immutable feature selection.
type Selection struct {
	ops     [endOperations]bool
	backend Backend
	deps    []DependencyKey
}

// Option configures a Selection.
type Option func(*Selection) error

// WithOperations enables the given operations. It may be used multiple times.
func WithOperations(ops ...Operation) Option {
	return func(s *Selection) error {
		for _, op := range ops {
			if !op.Valid() {
				return fmt.Errorf("%w: unknown operation %v", ErrInvalidSelection, op)
			}
			s.ops[op] = true
		}
		return nil
	}
}

// WithAllOperations enables every operation.
func WithAllOperations() Option {
	return WithOperations(AllOperations()...)
}

// WithBackend sets the persistence backend.
func WithBackend(b Backend) Option {
	return func(s *Selection) error {
		if b != Embedded && b != External {
			return fmt.Errorf("%w: unknown backend %v", ErrInvalidSelection, b)
		}
		s.backend = b
		return nil
	}
}

// WithDependencies adds optional dependency keys. Repeated keys are kept once.
func WithDependencies(keys ...DependencyKey) Option {
	return func(s *Selection) error {
		for _, k := range keys {
			if _, err := ParseDependencyKey(string(k)); err != nil {
				return err
			}
			if !slices.Contains(s.deps, k) {
				s.deps = append(s.deps, k)
			}
		}
		return nil
	}
}

// New returns a selection with no operations, the embedded backend and no
// optional dependencies, modified by the options. All option errors are
// reported together.
func New(opts ...Option) (*Selection, error) {
	s := &Selection{backend: Embedded}
	var errs []error
	for _, opt := range opts {
		if err := opt(s); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return s, nil
}

// Default returns the selection used when nothing is configured: every
// operation, the embedded backend and every optional dependency.
func Default() *Selection {
	s, _ := New(WithAllOperations(), WithDependencies(DefaultDependencies()...))
	return s
}

// Enabled reports if the operation is enabled.
func (s *Selection) Enabled(op Operation) bool {
	return op.Valid() && s.ops[op]
}

// Operations returns the enabled operations in canonical order.
func (s *Selection) Operations() []Operation {
	var ops []Operation
	for _, op := range AllOperations() {
		if s.ops[op] {
			ops = append(ops, op)
		}
	}
	return ops
}

// Backend returns the persistence backend.
func (s *Selection) Backend() Backend {
	return s.backend
}

// Dependencies returns the optional dependency keys in the order they were added.
func (s *Selection) Dependencies() []DependencyKey {
	return slices.Clone(s.deps)
}

// HasDependency reports if the key is selected.
func (s *Selection) HasDependency(k DependencyKey) bool {
	return slices.Contains(s.deps, k)
}

// String implements fmt.Stringer.
func (s *Selection) String() string {
	ops := make([]string, 0, len(s.ops))
	for _, op := range s.Operations() {
		ops = append(ops, op.String())
	}
	deps := make([]string, len(s.deps))
	for i, k := range s.deps {
		deps[i] = string(k)
	}
	return fmt.Sprintf("ops=[%s] backend=%s deps=[%s]", strings.Join(ops, ","), s.backend, strings.Join(deps, ","))
}
