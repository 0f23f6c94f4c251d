package gin

import (
	"github.com/dave/jennifer/jen"
)

// GenModel generates the persistence model with its table metadata.
func (t *Target) GenModel() *jen.File {
	h := t.helper
	e := h.Entity()
	r := e.Receiver()
	f := h.NewFile("model")

	f.Commentf("%s is the persistence model of the %s table.", e.Name, e.Table)
	f.Type().Id(e.Name).StructFunc(func(g *jen.Group) {
		for _, fd := range e.Fields {
			g.Id(fd.StructField()).Add(h.GoType(fd)).Tag(map[string]string{"db": fd.Column()})
		}
	})

	f.Commentf("%s is the table holding %s rows.", tableName(e), e.Name)
	f.Const().Id(tableName(e)).Op("=").Lit(e.Table)

	f.Commentf("%s holds the columns in declaration order.", columnsName(e))
	f.Var().Id(columnsName(e)).Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, c := range e.Columns() {
			g.Lit(c)
		}
	})

	f.Commentf("%s returns the column of an attribute name.", columnName(e))
	f.Func().Id(columnName(e)).Params(jen.Id("name").String()).Params(jen.String(), jen.Bool()).Block(
		jen.Switch(jen.Id("name")).BlockFunc(func(g *jen.Group) {
			for _, fd := range e.Fields {
				g.Case(jen.Lit(fd.Name)).Block(jen.Return(jen.Lit(fd.Column()), jen.True()))
			}
		}),
		jen.Return(jen.Lit(""), jen.False()),
	)

	f.Commentf("Values returns the column values in %s order.", columnsName(e))
	f.Func().Params(jen.Id(r).Op("*").Id(e.Name)).Id("Values").Params().Index().Any().Block(
		jen.Return(jen.Index().Any().ValuesFunc(func(g *jen.Group) {
			for _, fd := range e.Fields {
				g.Id(r).Dot(fd.StructField())
			}
		})),
	)

	f.Commentf("ScanTargets returns pointers to the fields in %s order.", columnsName(e))
	f.Func().Params(jen.Id(r).Op("*").Id(e.Name)).Id("ScanTargets").Params().Index().Any().Block(
		jen.Return(jen.Index().Any().ValuesFunc(func(g *jen.Group) {
			for _, fd := range e.Fields {
				g.Op("&").Id(r).Dot(fd.StructField())
			}
		})),
	)
	return f
}
