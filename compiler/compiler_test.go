package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/feature"
	"github.com/syssam/crudgen/schema"
)

func TestAssemble(t *testing.T) {
	s, err := schema.New("Resultado", "",
		schema.Key("id", schema.Text),
		schema.Attr("name", schema.Text),
		schema.Attr("score", schema.Integer),
	)
	require.NoError(t, err)

	t.Run("default selection", func(t *testing.T) {
		set, err := Assemble(context.Background(), s, feature.Default())
		require.NoError(t, err)
		assert.True(t, set.Has(gen.ArtifactManifest))
		assert.True(t, set.Has(gen.ArtifactServiceTest))
		assert.Contains(t, set[gen.ArtifactModel], "package model")
	})
	t.Run("invalid option", func(t *testing.T) {
		set, err := Assemble(context.Background(), s, feature.Default(), gen.WithModule(""))
		require.Error(t, err)
		assert.Nil(t, set)
		assert.True(t, gen.IsConfigError(err))
	})
}
