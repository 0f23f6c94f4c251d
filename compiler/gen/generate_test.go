package gen_test

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/mod/modfile"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/compiler/gen/gin"
	"github.com/syssam/crudgen/feature"
	"github.com/syssam/crudgen/schema"
)

func resultado(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.New("Resultado", "",
		schema.Key("id", schema.Text),
		schema.Attr("name", schema.Text),
		schema.Attr("score", schema.Integer),
	)
	require.NoError(t, err)
	return s
}

func assemble(t *testing.T, s *schema.Schema, sel *feature.Selection) (gen.ArtifactSet, error) {
	t.Helper()
	a, err := gen.NewAssembler(s, sel, gen.WithModule("example.com/resultado"))
	require.NoError(t, err)
	return a.WithTarget(gin.NewTarget(a)).Assemble(context.Background())
}

func parse(t *testing.T, id, src string) *ast.File {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), id+".go", src, parser.ParseComments)
	require.NoError(t, err, src)
	return f
}

func TestAssembleResultado(t *testing.T) {
	sel, err := feature.New(feature.WithAllOperations(), feature.WithBackend(feature.Embedded))
	require.NoError(t, err)
	set, err := assemble(t, resultado(t), sel)
	require.NoError(t, err)

	t.Run("transfer object declares the attributes in order", func(t *testing.T) {
		f := parse(t, gen.ArtifactDTO, set[gen.ArtifactDTO])
		var names []string
		ast.Inspect(f, func(n ast.Node) bool {
			if st, ok := n.(*ast.StructType); ok {
				for _, fd := range st.Fields.List {
					names = append(names, fd.Names[0].Name)
				}
				return false
			}
			return true
		})
		assert.Equal(t, []string{"ID", "Name", "Score"}, names)
	})
	t.Run("controller exposes five operations", func(t *testing.T) {
		f := parse(t, gen.ArtifactController, set[gen.ArtifactController])
		routes := make(map[string]bool)
		ast.Inspect(f, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			sel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok || len(call.Args) != 2 {
				return true
			}
			if x, ok := sel.X.(*ast.Ident); ok && x.Name == "g" {
				path := call.Args[0].(*ast.BasicLit).Value
				routes[sel.Sel.Name+" "+path] = true
			}
			return true
		})
		assert.Len(t, routes, 5)
	})
	t.Run("every go artifact parses", func(t *testing.T) {
		for id, src := range set {
			if id == gen.ArtifactManifest || id == gen.ArtifactConfig || id == gen.ArtifactMigration {
				continue
			}
			f := parse(t, id, src)
			assert.True(t, strings.HasPrefix(src, "// "+gen.DefaultHeader), id)
			assert.NotEmpty(t, f.Name.Name, id)
		}
	})
	t.Run("manifest", func(t *testing.T) {
		mf, err := modfile.Parse("go.mod", []byte(set[gen.ArtifactManifest]), nil)
		require.NoError(t, err)
		assert.Equal(t, "example.com/resultado", mf.Module.Mod.Path)
		require.Len(t, mf.Require, 2)
		assert.Equal(t, "github.com/gin-gonic/gin", mf.Require[0].Mod.Path, "the controller always imports gin")
		assert.Equal(t, "modernc.org/sqlite", mf.Require[1].Mod.Path)
	})
	t.Run("search artifacts", func(t *testing.T) {
		assert.True(t, set.Has(gen.ArtifactSearchCriteria))
		assert.True(t, set.Has(gen.ArtifactPredicateBuilder))
		assert.False(t, set.Has(gen.ArtifactServiceTest))
		assert.False(t, set.Has(gen.ArtifactRepositoryTest))
	})
}

func TestAssembleNoOperations(t *testing.T) {
	sel, err := feature.New()
	require.NoError(t, err)
	set, err := assemble(t, resultado(t), sel)
	require.NoError(t, err)

	for _, id := range []string{
		gen.ArtifactModel, gen.ArtifactDTO, gen.ArtifactMapper,
		gen.ArtifactRepositoryContract, gen.ArtifactRepository,
		gen.ArtifactNotFoundError, gen.ArtifactAlreadyExistsError, gen.ArtifactInternalError,
		gen.ArtifactController,
	} {
		assert.True(t, set.Has(id), id)
	}
	assert.False(t, set.Has(gen.ArtifactSearchCriteria))
	assert.Contains(t, set[gen.ArtifactController], "Register(r gin.IRouter) {}")
	assert.Contains(t, set[gen.ArtifactRepositoryContract], "interface{}")
}

func TestAssembleDependencies(t *testing.T) {
	sel, err := feature.New(
		feature.WithAllOperations(),
		feature.WithBackend(feature.External),
		feature.WithDependencies(feature.DefaultDependencies()...),
	)
	require.NoError(t, err)
	set, err := assemble(t, resultado(t), sel)
	require.NoError(t, err)

	assert.True(t, set.Has(gen.ArtifactServiceTest))
	assert.True(t, set.Has(gen.ArtifactRepositoryTest))
	mf, err := modfile.Parse("go.mod", []byte(set[gen.ArtifactManifest]), nil)
	require.NoError(t, err)
	assert.Len(t, mf.Require, 9)
	assert.Equal(t, "github.com/go-sql-driver/mysql", mf.Require[len(mf.Require)-1].Mod.Path)
	assert.Contains(t, set[gen.ArtifactConfig], "tcp(localhost:3306)")
	assert.Contains(t, set[gen.ArtifactMigration], "`id` VARCHAR(255) PRIMARY KEY")
}

func TestAssembleDeterministic(t *testing.T) {
	first, err := assemble(t, resultado(t), feature.Default())
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		next, err := assemble(t, resultado(t), feature.Default())
		require.NoError(t, err)
		assert.Equal(t, first, next)
	}
}

// brokenTarget fails to produce the controller.
type brokenTarget struct {
	*gin.Target
}

func (brokenTarget) GenController() *jen.File { return nil }

func TestAssembleFailure(t *testing.T) {
	t.Run("no partial output", func(t *testing.T) {
		a, err := gen.NewAssembler(resultado(t), feature.Default())
		require.NoError(t, err)
		set, err := a.WithTarget(brokenTarget{gin.NewTarget(a)}).Assemble(context.Background())
		require.Error(t, err)
		assert.Nil(t, set)
		assert.True(t, gen.IsGenerationError(err))
		assert.Contains(t, err.Error(), gen.ArtifactController)
	})
	t.Run("missing target", func(t *testing.T) {
		a, err := gen.NewAssembler(resultado(t), feature.Default())
		require.NoError(t, err)
		_, err = a.Assemble(context.Background())
		assert.True(t, gen.IsConfigError(err))
	})
	t.Run("cancelled", func(t *testing.T) {
		a, err := gen.NewAssembler(resultado(t), feature.Default(), gen.WithWorkers(1))
		require.NoError(t, err)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		set, err := a.WithTarget(gin.NewTarget(a)).Assemble(ctx)
		require.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, set)
	})
}
