package cli

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

// run executes the root command in dir and returns its output.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	var out bytes.Buffer
	root := RootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, dir, "generate",
		"--name", "shop", "--entity", "Item",
		"--fields", "sku:text!,title:text,qty:integer",
		"--ops", "create,read,search",
		"--deps", "web,testing",
		"--out", "svc",
	)
	require.NoError(t, err, out)
	assert.Contains(t, out, "generated svc")

	for _, p := range []string{
		"go.mod",
		"cmd/server/main.go",
		"internal/model/item.go",
		"internal/controller/item.go",
		"internal/service/item_test.go",
		"internal/search/predicate.go",
		"migrations/schema.sql",
	} {
		assert.FileExists(t, filepath.Join(dir, "svc", filepath.FromSlash(p)))
	}
	b, err := os.ReadFile(filepath.Join(dir, "svc", "go.mod"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "module example.com/shop")
	assert.Contains(t, string(b), "modernc.org/sqlite")
}

func TestGenerateProjectFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "crudgen.yaml"), []byte(`
name: ledger
module: example.com/acme/ledger
attributes:
  - {name: id, type: Long}
  - {name: memo, type: String}
operations: [create, delete]
backend: external
dependencies: [web]
`), 0o644))

	out, err := run(t, dir, "generate", "--dry-run")
	require.NoError(t, err, out)
	assert.Contains(t, out, "ledger (example.com/acme/ledger)")
	assert.Contains(t, out, "internal/repository/ledger_sql.go")
	assert.NotContains(t, out, "internal/search")

	out, err = run(t, dir, "generate", "--backend", "embedded", "--zip", "ledger.zip")
	require.NoError(t, err, out)
	zr, err := zip.OpenReader(filepath.Join(dir, "ledger.zip"))
	require.NoError(t, err)
	defer zr.Close()
	var mod string
	for _, f := range zr.File {
		if f.Name == "ledger/go.mod" {
			rc, err := f.Open()
			require.NoError(t, err)
			var buf bytes.Buffer
			_, err = buf.ReadFrom(rc)
			require.NoError(t, err)
			rc.Close()
			mod = buf.String()
		}
	}
	assert.Contains(t, mod, "modernc.org/sqlite")
	assert.NotContains(t, mod, "go-sql-driver")
}

func TestGenerateErrors(t *testing.T) {
	dir := t.TempDir()
	tests := [][]string{
		{"generate", "--ops", "create,purge"},
		{"generate", "--fields", "id"},
		{"generate", "--backend", "oracle"},
		{"generate", "--deps", "graphql"},
		{"generate", "--config", "missing.yaml"},
		{"generate", "--fields", "id:text,id:integer", "--dry-run"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args[1:], " "), func(t *testing.T) {
			_, err := run(t, dir, args...)
			assert.Error(t, err)
		})
	}
}

func TestCatalog(t *testing.T) {
	out, err := run(t, t.TempDir(), "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "create, read, update, delete, search")
	assert.Contains(t, out, "eq, neq, like, lt, lte, gt, gte")
	assert.Contains(t, out, "github.com/swaggo/swag@v1.16.4 (tool)")

	out, err = run(t, t.TempDir(), "catalog", "--json")
	require.NoError(t, err)
	var c struct {
		Dependencies []struct {
			Key string `json:"key"`
		} `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Len(t, c.Dependencies, 6)
}

func TestPreview(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rows.yaml"), []byte(`
- {id: 1, name: Anna}
- {id: 2, name: Bob}
- {id: 3, name: Hannah}
`), 0o644))

	out, err := run(t, dir, "preview",
		"--fields", "id:integer!,name:text",
		"--rows", "rows.yaml",
		"--criteria", `[{"key":"name","operation":"like","value":"ann"}]`,
	)
	require.NoError(t, err, out)
	assert.Contains(t, out, `"name" LIKE ?`)
	assert.Contains(t, out, "SQL (2 rows)")
	assert.Contains(t, out, "results agree")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "criteria.yaml"), []byte(`
- {key: id, operation: gt, value: 1}
`), 0o644))
	out, err = run(t, dir, "preview", "--fields", "id:integer!,name:text", "--rows", "rows.yaml", "--criteria", "criteria.yaml", "--json")
	require.NoError(t, err, out)
	var res struct {
		Condition string `json:"condition"`
		Agree     bool   `json:"agree"`
		SQL       []any  `json:"sql"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, `CAST("id" AS TEXT) > ?`, res.Condition)
	assert.True(t, res.Agree)
	assert.Len(t, res.SQL, 2)

	_, err = run(t, dir, "preview", "--fields", "id:integer!,name:text")
	assert.ErrorContains(t, err, "rows")
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "crudgen dev"))
}

func TestWatchLoop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crudgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: a\n"), 0o644))

	w, err := newWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	runs := make(chan struct{}, 10)
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, w, filepath.Clean(path), 20*time.Millisecond, func() error {
			runs <- struct{}{}
			return nil
		}, func(err error) { t.Log(err) })
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("name: b\n"), 0o644))
	select {
	case <-runs:
	case <-time.After(5 * time.Second):
		t.Fatal("no regeneration after write")
	}
	cancel()
	assert.NoError(t, <-done)

	_, err = newWatcher(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
