package export

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen/compiler/gen"
)

func sample() gen.ArtifactSet {
	return gen.ArtifactSet{
		gen.ArtifactModel:    "package model\n",
		gen.ArtifactManifest: "module example.com/resultado\n",
		gen.ArtifactConfig:   "server:\n  port: 8080\n",
		"extra":              "x",
	}
}

func TestLayout(t *testing.T) {
	l := DefaultLayout("resultado")
	assert.Equal(t, "internal/model/resultado.go", l.Path(gen.ArtifactModel))
	assert.Equal(t, "internal/repository/resultado_sql_test.go", l.Path(gen.ArtifactRepositoryTest))
	assert.Equal(t, "internal/apperr/not_found.go", l.Path(gen.ArtifactNotFoundError))
	assert.Equal(t, "go.mod", l.Path(gen.ArtifactManifest))
	assert.Equal(t, "artifacts/extra", l.Path("extra"))

	files := l.Files(sample())
	require.Len(t, files, 4)
	assert.Equal(t, "artifacts/extra", files[0].Path)
	assert.Equal(t, "internal/model/resultado.go", files[len(files)-1].Path)
}

func TestWriter(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, DefaultLayout("resultado")).WithWorkers(2)
	require.NoError(t, w.Write(context.Background(), sample()))

	b, err := os.ReadFile(filepath.Join(dir, "internal", "model", "resultado.go"))
	require.NoError(t, err)
	assert.Equal(t, "package model\n", string(b))
	assert.Equal(t, 4, w.Metrics().Files)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewWriter(t.TempDir(), DefaultLayout("resultado")).Write(ctx, sample()), context.Canceled)
}

func TestArchive(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Archive(&buf, "resultado", sample(), DefaultLayout("resultado")))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"resultado/artifacts/extra",
		"resultado/config.yaml",
		"resultado/go.mod",
		"resultado/internal/model/resultado.go",
	}, names)

	rc, err := zr.File[2].Open()
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "module example.com/resultado\n", string(b))
}
