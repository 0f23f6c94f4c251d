package gin

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/compiler/gen"
)

const (
	ginPkg  = "github.com/gin-gonic/gin"
	httpPkg = "net/http"
	ctxPkg  = "context"
	sqlPkg  = "database/sql"
)

// Target generates the gin service project.
type Target struct {
	helper gen.GeneratorHelper
}

// NewTarget creates a new gin target.
func NewTarget(h gen.GeneratorHelper) *Target {
	return &Target{helper: h}
}

// Name implements gen.MinimalTarget.
func (*Target) Name() string { return "gin" }

var (
	_ gen.MinimalTarget    = (*Target)(nil)
	_ gen.ProjectGenerator = (*Target)(nil)
	_ gen.TestGenerator    = (*Target)(nil)
)

// Names of the generated declarations.

func repositoryName(e *gen.Entity) string    { return e.Name + "Repository" }
func sqlRepositoryName(e *gen.Entity) string { return "SQL" + e.Name + "Repository" }
func serviceName(e *gen.Entity) string       { return e.Name + "Service" }
func controllerName(e *gen.Entity) string    { return e.Name + "Controller" }
func toDTOName(e *gen.Entity) string         { return e.Name + "ToDTO" }
func fromDTOName(e *gen.Entity) string       { return e.Name + "FromDTO" }
func updateName(e *gen.Entity) string        { return "Update" + e.Name }
func tableName(e *gen.Entity) string         { return e.Name + "Table" }
func columnsName(e *gen.Entity) string       { return e.Name + "Columns" }
func columnName(e *gen.Entity) string        { return e.Name + "Column" }

func (t *Target) modelType() *jen.Statement {
	return jen.Qual(t.helper.ModelPkg(), t.helper.Entity().Name)
}

func (t *Target) dtoType() *jen.Statement {
	return jen.Qual(t.helper.DTOPkg(), t.helper.Entity().Name)
}

func (t *Target) idType() jen.Code {
	return t.helper.GoType(t.helper.Entity().ID)
}

// ctxParam is the first parameter of blocking methods.
func ctxParam() *jen.Statement {
	return jen.Id("ctx").Qual(ctxPkg, "Context")
}

// ifErrReturn returns `if err != nil { return results... }`.
func ifErrReturn(results ...jen.Code) *jen.Statement {
	return jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(results...))
}
