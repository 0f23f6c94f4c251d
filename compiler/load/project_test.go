package load

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/feature"
	"github.com/syssam/crudgen/schema"
)

func TestDefault(t *testing.T) {
	p := Default()
	assert.Equal(t, "Resultado", p.EntityName())
	assert.Equal(t, "example.com/resultado", p.ModulePath())
	assert.Equal(t, "resultado", p.OutputDir())

	s, sel, err := p.Build()
	require.NoError(t, err)
	assert.Equal(t, "Resultado", s.Entity())
	assert.Equal(t, "id", s.Identity().Name)
	assert.Equal(t, feature.AllOperations(), sel.Operations())
	assert.Equal(t, feature.Embedded, sel.Backend())
	assert.True(t, sel.HasDependency(feature.Mocking))
}

func TestFile(t *testing.T) {
	t.Run("project file", func(t *testing.T) {
		p, err := File(filepath.Join("testdata", "crudgen.yaml"), false)
		require.NoError(t, err)
		assert.Equal(t, "example.com/acme/resultado", p.ModulePath())
		require.Len(t, p.Attributes, 3)
		assert.Equal(t, schema.Text, p.Attributes[1].Type)
		assert.Equal(t, feature.External, p.Backend)
		assert.Equal(t, []feature.DependencyKey{feature.Web, feature.Testing}, p.Dependencies)

		s, sel, err := p.Build()
		require.NoError(t, err)
		assert.Equal(t, 3, s.Len())
		assert.Len(t, sel.Operations(), 5)
	})
	t.Run("missing file", func(t *testing.T) {
		p, err := File(filepath.Join(t.TempDir(), DefaultFile), true)
		require.NoError(t, err)
		assert.Equal(t, DefaultName, p.Name)

		_, err = File(filepath.Join(t.TempDir(), DefaultFile), false)
		assert.Error(t, err)
	})
}

func TestParse(t *testing.T) {
	t.Run("empty operations", func(t *testing.T) {
		p, err := Parse([]byte("name: shop\noperations: []\n"))
		require.NoError(t, err)
		_, sel, err := p.Build()
		require.NoError(t, err)
		assert.Empty(t, sel.Operations())
	})
	t.Run("json", func(t *testing.T) {
		p, err := Parse([]byte(`{"name":"shop","attributes":[{"name":"sku","type":"Long"}]}`))
		require.NoError(t, err)
		assert.Equal(t, "Shop", p.EntityName())
		assert.Equal(t, schema.Integer, p.Attributes[0].Type)
	})
	t.Run("unknown type", func(t *testing.T) {
		_, err := Parse([]byte("attributes:\n  - name: x\n    type: blob\n"))
		assert.Error(t, err)
	})
	t.Run("duplicate attribute", func(t *testing.T) {
		p, err := Parse([]byte("attributes:\n  - {name: a, type: text}\n  - {name: a, type: text}\n"))
		require.NoError(t, err)
		_, _, err = p.Build()
		assert.ErrorIs(t, err, schema.ErrDuplicateAttributeName)
	})
}

func TestEnv(t *testing.T) {
	env := map[string]string{
		"CRUDGEN_PROJECT": "shop",
		"CRUDGEN_BACKEND": "mysql",
		"CRUDGEN_OUTPUT":  " ",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	p := Default()
	require.NoError(t, p.Env(lookup))
	assert.Equal(t, "shop", p.Name)
	assert.Equal(t, feature.External, p.Backend)
	assert.Equal(t, "shop", p.OutputDir())

	env["CRUDGEN_BACKEND"] = "oracle"
	assert.Error(t, Default().Env(lookup))
}

func TestParseFields(t *testing.T) {
	attrs, err := ParseFields("id:text!, name:text,score:integer")
	require.NoError(t, err)
	assert.Equal(t, []schema.Attribute{
		schema.Key("id", schema.Text),
		schema.Attr("name", schema.Text),
		schema.Attr("score", schema.Integer),
	}, attrs)

	for _, spec := range []string{"", "id", "id:blob"} {
		_, err := ParseFields(spec)
		assert.Error(t, err, spec)
	}
}

func TestParseLists(t *testing.T) {
	ops, err := ParseOperations("create,search")
	require.NoError(t, err)
	assert.Equal(t, []feature.Operation{feature.Create, feature.Search}, ops)
	ops, err = ParseOperations("none")
	require.NoError(t, err)
	assert.Empty(t, ops)
	_, err = ParseOperations("create,purge")
	assert.Error(t, err)

	keys, err := ParseDependencies("all")
	require.NoError(t, err)
	assert.Equal(t, feature.DefaultDependencies(), keys)
	_, err = ParseDependencies("web,graphql")
	assert.Error(t, err)
}

func TestAssemble(t *testing.T) {
	p := Default()
	p.Name = "shop"
	p.Entity = "OrderLine"
	set, layout, err := p.Assemble(context.Background())
	require.NoError(t, err)
	assert.Contains(t, set[gen.ArtifactManifest], "module example.com/shop")
	assert.Equal(t, "internal/model/order_line.go", layout.Path(gen.ArtifactModel))

	p.Attributes = nil
	_, _, err = p.Assemble(context.Background())
	assert.True(t, schema.IsSchemaError(err))
}
