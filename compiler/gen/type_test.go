package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen/schema"
)

func resultadoSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New("Resultado", "",
		schema.Key("id", schema.Text),
		schema.Attr("name", schema.Text),
		schema.Attr("score", schema.Integer),
	)
	require.NoError(t, err)
	return s
}

func TestNewEntity(t *testing.T) {
	t.Run("names", func(t *testing.T) {
		e, err := NewEntity(resultadoSchema(t))
		require.NoError(t, err)
		assert.Equal(t, "Resultado", e.Name)
		assert.Equal(t, "resultados", e.Table)
		assert.Equal(t, "/resultados", e.Route)
		assert.Equal(t, "resultado", e.FileName())
		assert.Equal(t, "r", e.Receiver())
		assert.Equal(t, []string{"id", "name", "score"}, e.Columns())
	})
	t.Run("identity", func(t *testing.T) {
		e, err := NewEntity(resultadoSchema(t))
		require.NoError(t, err)
		require.NotNil(t, e.ID)
		assert.Equal(t, "id", e.ID.Name)
		assert.Same(t, e.Fields[0], e.ID)
		require.Len(t, e.MutableFields(), 2)
		assert.Equal(t, "name", e.MutableFields()[0].Name)
	})
	t.Run("implicit identity", func(t *testing.T) {
		s, err := schema.New("Order", "", schema.Attr("number", schema.Integer), schema.Attr("total", schema.Decimal))
		require.NoError(t, err)
		e, err := NewEntity(s)
		require.NoError(t, err)
		assert.Equal(t, "number", e.ID.Name)
	})
	t.Run("explicit table", func(t *testing.T) {
		s, err := schema.New("Person", "persons", schema.Key("id", schema.Integer))
		require.NoError(t, err)
		e, err := NewEntity(s)
		require.NoError(t, err)
		assert.Equal(t, "persons", e.Table)
		assert.Equal(t, "/people", e.Route)
	})
	t.Run("multi word", func(t *testing.T) {
		s, err := schema.New("OrderLine", "", schema.Key("lineID", schema.Integer), schema.Attr("unit_price", schema.Decimal))
		require.NoError(t, err)
		e, err := NewEntity(s)
		require.NoError(t, err)
		assert.Equal(t, "OrderLine", e.Name)
		assert.Equal(t, "order_lines", e.Table)
		assert.Equal(t, "/order-lines", e.Route)
		assert.Equal(t, "LineID", e.Fields[0].StructField())
		assert.Equal(t, "line_id", e.Fields[0].Column())
		assert.Equal(t, "lineID", e.Fields[0].JSONKey())
		assert.Equal(t, "UnitPrice", e.Fields[1].StructField())
	})
	t.Run("collision", func(t *testing.T) {
		s, err := schema.New("Item", "", schema.Key("unitPrice", schema.Decimal), schema.Attr("unit_price", schema.Decimal))
		require.NoError(t, err)
		_, err = NewEntity(s)
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})
}

func TestEntityLookup(t *testing.T) {
	e, err := NewEntity(resultadoSchema(t))
	require.NoError(t, err)

	f, ok := e.Field("score")
	require.True(t, ok)
	assert.Equal(t, schema.Integer, f.Type)
	_, ok = e.Field("missing")
	assert.False(t, ok)

	f, ok = e.TextField()
	require.True(t, ok)
	assert.Equal(t, "name", f.Name)

	s, err := schema.New("Counter", "", schema.Key("id", schema.Integer))
	require.NoError(t, err)
	e, err = NewEntity(s)
	require.NoError(t, err)
	_, ok = e.TextField()
	assert.False(t, ok)
}
