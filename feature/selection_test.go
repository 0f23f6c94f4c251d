package feature

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("zero value", func(t *testing.T) {
		s, err := New()
		require.NoError(t, err)
		assert.Empty(t, s.Operations())
		assert.Equal(t, Embedded, s.Backend())
		assert.Empty(t, s.Dependencies())
		for _, op := range AllOperations() {
			assert.False(t, s.Enabled(op))
		}
	})

	t.Run("operations keep canonical order", func(t *testing.T) {
		s, err := New(WithOperations(Search, Create), WithOperations(Delete, Create))
		require.NoError(t, err)
		assert.Equal(t, []Operation{Create, Delete, Search}, s.Operations())
		assert.True(t, s.Enabled(Search))
		assert.False(t, s.Enabled(Update))
	})

	t.Run("dependencies deduplicated", func(t *testing.T) {
		s, err := New(WithDependencies(Testing, Web, Testing), WithBackend(External))
		require.NoError(t, err)
		assert.Equal(t, []DependencyKey{Testing, Web}, s.Dependencies())
		assert.True(t, s.HasDependency(Web))
		assert.False(t, s.HasDependency(Docs))
		assert.Equal(t, External, s.Backend())
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		s, err := New(WithDependencies(Web))
		require.NoError(t, err)
		deps := s.Dependencies()
		deps[0] = Docs
		assert.Equal(t, []DependencyKey{Web}, s.Dependencies())
	})

	t.Run("collects all errors", func(t *testing.T) {
		s, err := New(WithOperations(Operation(42)), WithBackend(Backend(9)), WithDependencies("nope"))
		require.Error(t, err)
		assert.Nil(t, s)
		assert.True(t, errors.Is(err, ErrInvalidSelection))
		assert.Contains(t, err.Error(), "unknown operation")
		assert.Contains(t, err.Error(), "unknown backend")
		assert.Contains(t, err.Error(), `unknown dependency "nope"`)
	})
}

func TestDefault(t *testing.T) {
	s := Default()
	assert.Equal(t, AllOperations(), s.Operations())
	assert.Equal(t, Embedded, s.Backend())
	assert.Equal(t, DefaultDependencies(), s.Dependencies())
	assert.Equal(t, "ops=[create,read,update,delete,search] backend=embedded deps=[web,config,validation,docs,testing,mocking]", s.String())
}

func TestParse(t *testing.T) {
	ops := map[string]Operation{
		"create":    Create,
		"GET":       ReadByID,
		"get_by_id": ReadByID,
		"Update":    Update,
		"delete":    Delete,
		" search ":  Search,
	}
	for in, want := range ops {
		got, err := ParseOperation(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseOperation("patch")
	assert.ErrorIs(t, err, ErrInvalidSelection)

	b, err := ParseBackend("H2")
	require.NoError(t, err)
	assert.Equal(t, Embedded, b)
	b, err = ParseBackend("mysql")
	require.NoError(t, err)
	assert.Equal(t, External, b)
	_, err = ParseBackend("oracle")
	assert.Error(t, err)

	var op Operation
	require.NoError(t, op.UnmarshalText([]byte("read")))
	assert.Equal(t, ReadByID, op)
	text, err := op.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "read", string(text))
	assert.Equal(t, "Operation(0)", Operation(0).String())

	k, err := ParseDependencyKey("DOCS")
	require.NoError(t, err)
	assert.Equal(t, Docs, k)
}
