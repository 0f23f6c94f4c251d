package gin

import (
	"github.com/dave/jennifer/jen"
)

// GenMapper generates the mapping rules between model and transfer object.
// Every function enumerates the same fields in declaration order; the update
// mapping leaves the identity untouched.
func (t *Target) GenMapper() *jen.File {
	h := t.helper
	e := h.Entity()
	f := h.NewFile("mapper")

	f.Commentf("%s maps a model to its transfer object.", toDTOName(e))
	f.Func().Id(toDTOName(e)).Params(jen.Id("m").Op("*").Add(t.modelType())).Op("*").Add(t.dtoType()).Block(
		jen.Return(jen.Op("&").Add(t.dtoType()).ValuesFunc(func(g *jen.Group) {
			for _, fd := range e.Fields {
				g.Id(fd.StructField()).Op(":").Id("m").Dot(fd.StructField())
			}
		})),
	)

	f.Commentf("%s maps a transfer object to a new model.", fromDTOName(e))
	f.Func().Id(fromDTOName(e)).Params(jen.Id("d").Op("*").Add(t.dtoType())).Op("*").Add(t.modelType()).Block(
		jen.Return(jen.Op("&").Add(t.modelType()).ValuesFunc(func(g *jen.Group) {
			for _, fd := range e.Fields {
				g.Id(fd.StructField()).Op(":").Id("d").Dot(fd.StructField())
			}
		})),
	)

	f.Commentf("%s copies the transfer object into m. The identity %s is not changed.", updateName(e), e.ID.StructField())
	f.Func().Id(updateName(e)).Params(
		jen.Id("m").Op("*").Add(t.modelType()),
		jen.Id("d").Op("*").Add(t.dtoType()),
	).BlockFunc(func(g *jen.Group) {
		for _, fd := range e.MutableFields() {
			g.Id("m").Dot(fd.StructField()).Op("=").Id("d").Dot(fd.StructField())
		}
	})
	return f
}
