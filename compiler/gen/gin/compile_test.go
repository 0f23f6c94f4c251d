package gin

import (
	"context"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/export"
	"github.com/syssam/crudgen/feature"
	"github.com/syssam/crudgen/schema"
)

const modulePath = "example.com/resultado"

// assemble returns the artifact set of every operation for an entity
// covering all attribute types.
func assemble(t *testing.T, opts ...feature.Option) gen.ArtifactSet {
	t.Helper()
	s, err := schema.New("Resultado", "",
		schema.Key("id", schema.Text),
		schema.Attr("name", schema.Text),
		schema.Attr("score", schema.Integer),
		schema.Attr("amount", schema.Decimal),
		schema.Attr("active", schema.Boolean),
		schema.Attr("born", schema.Date),
	)
	require.NoError(t, err)
	sel, err := feature.New(append([]feature.Option{feature.WithAllOperations()}, opts...)...)
	require.NoError(t, err)
	a, err := gen.NewAssembler(s, sel, gen.WithModule(modulePath))
	require.NoError(t, err)
	set, err := a.WithTarget(NewTarget(a)).Assemble(context.Background())
	require.NoError(t, err)
	return set
}

// genImporter type-checks generated packages on demand and imports the
// standard library from source.
type genImporter struct {
	fset  *token.FileSet
	std   types.Importer
	files map[string][]*ast.File
	pkgs  map[string]*types.Package
}

func (im *genImporter) Import(path string) (*types.Package, error) {
	if p, ok := im.pkgs[path]; ok {
		return p, nil
	}
	files, ok := im.files[path]
	if !ok {
		return im.std.Import(path)
	}
	conf := types.Config{Importer: im}
	p, err := conf.Check(path, im.fset, files, nil)
	if err != nil {
		return nil, err
	}
	im.pkgs[path] = p
	return p, nil
}

// stdOnly reports if every import of the package, transitively through other
// generated packages, is in the standard library.
func stdOnly(pkg string, files map[string][]*ast.File, seen map[string]bool) bool {
	if ok, done := seen[pkg]; done {
		return ok
	}
	seen[pkg] = true
	for _, f := range files[pkg] {
		for _, spec := range f.Imports {
			p, _ := strconv.Unquote(spec.Path.Value)
			switch {
			case strings.HasPrefix(p, modulePath+"/"):
				if !stdOnly(p, files, seen) {
					seen[pkg] = false
				}
			case strings.Contains(strings.Split(p, "/")[0], "."):
				seen[pkg] = false
			}
		}
	}
	return seen[pkg]
}

func TestTypeCheck(t *testing.T) {
	for name, opts := range map[string][]feature.Option{
		"embedded": {feature.WithBackend(feature.Embedded)},
		"external": {feature.WithBackend(feature.External)},
	} {
		t.Run(name, func(t *testing.T) {
			set := assemble(t, opts...)
			layout := export.DefaultLayout("resultado")
			fset := token.NewFileSet()
			files := make(map[string][]*ast.File)
			for id, src := range set {
				p, ok := layout[id]
				if !ok || path.Ext(p) != ".go" || strings.HasSuffix(p, "_test.go") {
					continue
				}
				f, err := parser.ParseFile(fset, p, src, 0)
				require.NoError(t, err, p)
				pkg := modulePath + "/" + path.Dir(p)
				files[pkg] = append(files[pkg], f)
			}

			im := &genImporter{
				fset:  fset,
				std:   importer.ForCompiler(fset, "source", nil),
				files: files,
				pkgs:  make(map[string]*types.Package),
			}
			seen := make(map[string]bool)
			var checked []string
			for pkg := range files {
				if !stdOnly(pkg, files, seen) {
					continue
				}
				_, err := im.Import(pkg)
				require.NoError(t, err, pkg)
				checked = append(checked, path.Base(pkg))
			}
			slices.Sort(checked)
			assert.Subset(t, checked, []string{"apperr", "dto", "mapper", "model", "repository", "search", "service"})
		})
	}
}

const buildTest = `package search

import (
	"encoding/json"
	"testing"
)

func column(key string) (string, bool) {
	switch key {
	case "name", "score":
		return key, true
	}
	return "", false
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		criteria []Criteria
		where    string
		args     int
	}{
		{"empty", nil, "", 0},
		{"none", []Criteria{{Key: "name", Operation: OpNone, Value: "x"}}, "", 0},
		{"out of range", []Criteria{{Key: "name", Operation: Op(99), Value: "x"}}, "", 0},
		{"out of range unknown key", []Criteria{{Key: "nope", Operation: Op(99), Value: "x"}}, "", 0},
		{"eq", []Criteria{{Key: "name", Operation: OpEQ, Value: "ann"}}, ` + "`" + `"name" = ?` + "`" + `, 1},
		{"like", []Criteria{{Key: "name", Operation: OpLike, Value: "an"}}, ` + "`" + `"name" LIKE ?` + "`" + `, 1},
		{"ordering", []Criteria{{Key: "score", Operation: OpGTE, Value: 9}, {Key: "name", Operation: Op(42)}}, ` + "`" + `CAST("score" AS TEXT) >= ?` + "`" + `, 1},
	}
	for _, tc := range tests {
		where, args, err := Build(tc.criteria, column)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if where != tc.where || len(args) != tc.args {
			t.Errorf("%s: Build = %q %v, want %q with %d args", tc.name, where, args, tc.where, tc.args)
		}
	}
	if _, _, err := Build([]Criteria{{Key: "nope", Operation: OpEQ}}, column); !IsFieldError(err) {
		t.Errorf("unknown key: err = %v", err)
	}
	var cs []Criteria
	if err := json.Unmarshal([]byte(` + "`" + `[{"key":"name","operation":"between","value":1}]` + "`" + `), &cs); err != nil {
		t.Fatal(err)
	}
	if where, _, _ := Build(cs, column); where != "" {
		t.Errorf("unknown operator name: where = %q", where)
	}
}
`

// TestBuildRuns compiles the generated search package in a scratch module
// and runs a test of Build against it.
func TestBuildRuns(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go command")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go command not found")
	}
	set := assemble(t, feature.WithBackend(feature.Embedded))
	dir := t.TempDir()
	pkg := filepath.Join(dir, filepath.FromSlash(gen.DirSearch))
	require.NoError(t, os.MkdirAll(pkg, 0o755))
	files := map[string]string{
		filepath.Join(dir, "go.mod"):        fmt.Sprintf("module %s\n\ngo 1.21\n", modulePath),
		filepath.Join(pkg, "criteria.go"):   set[gen.ArtifactSearchCriteria],
		filepath.Join(pkg, "builder.go"):    set[gen.ArtifactPredicateBuilder],
		filepath.Join(pkg, "build_test.go"): buildTest,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
	}
	cmd := exec.Command(goBin, "test", "./...")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod", "GOTOOLCHAIN=local")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}
