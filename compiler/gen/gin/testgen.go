package gin

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/feature"
)

const (
	assertPkg  = "github.com/stretchr/testify/assert"
	requirePkg = "github.com/stretchr/testify/require"
	sqlmockPkg = "github.com/DATA-DOG/go-sqlmock"
)

func testParam() *jen.Statement {
	return jen.Id("t").Op("*").Qual("testing", "T")
}

func requireNoError() *jen.Statement {
	return jen.Qual(requirePkg, "NoError").Call(jen.Id("t"), jen.Err())
}

func bg() *jen.Statement {
	return jen.Qual(ctxPkg, "Background").Call()
}

// GenServiceTest generates service tests over an in-memory repository.
func (t *Target) GenServiceTest() *jen.File {
	h := t.helper
	e := h.Entity()
	fake := "fake" + repositoryName(e)
	f := h.NewFile("service")
	id := e.ID.StructField()

	f.Commentf("%s is an in-memory %s.", fake, repositoryName(e))
	f.Type().Id(fake).Struct(
		jen.Id("rows").Map(t.idType()).Op("*").Add(t.modelType()),
	)
	f.Func().Id("new"+fake).Params().Op("*").Id(fake).Block(
		jen.Return(jen.Op("&").Id(fake).Values(jen.Id("rows").Op(":").Map(t.idType()).Op("*").Add(t.modelType()).Values())),
	)
	recv := func() *jen.Statement { return jen.Id("r").Op("*").Id(fake) }
	ctx := func() *jen.Statement { return jen.Id("_").Qual(ctxPkg, "Context") }
	store := func() []jen.Code {
		return []jen.Code{
			jen.Id("c").Op(":=").Op("*").Id("m"),
			jen.Id("r").Dot("rows").Index(jen.Id("m").Dot(id)).Op("=").Op("&").Id("c"),
			jen.Return(jen.Nil()),
		}
	}
	if t.needsExists() {
		f.Func().Params(recv()).Id("Exists").Params(ctx(), jen.Id("id").Add(t.idType())).Params(jen.Bool(), jen.Error()).Block(
			jen.List(jen.Id("_"), jen.Id("ok")).Op(":=").Id("r").Dot("rows").Index(jen.Id("id")),
			jen.Return(jen.Id("ok"), jen.Nil()),
		)
	}
	if t.needsFind() {
		f.Func().Params(recv()).Id("FindByID").Params(ctx(), jen.Id("id").Add(t.idType())).
			Params(jen.Op("*").Add(t.modelType()), jen.Bool(), jen.Error()).Block(
			jen.List(jen.Id("m"), jen.Id("ok")).Op(":=").Id("r").Dot("rows").Index(jen.Id("id")),
			jen.If(jen.Op("!").Id("ok")).Block(jen.Return(jen.Nil(), jen.False(), jen.Nil())),
			jen.Id("c").Op(":=").Op("*").Id("m"),
			jen.Return(jen.Op("&").Id("c"), jen.True(), jen.Nil()),
		)
	}
	if h.Enabled(feature.Create) {
		f.Func().Params(recv()).Id("Insert").Params(ctx(), jen.Id("m").Op("*").Add(t.modelType())).Error().Block(store()...)
	}
	if h.Enabled(feature.Update) {
		f.Func().Params(recv()).Id("Update").Params(ctx(), jen.Id("m").Op("*").Add(t.modelType())).Error().Block(store()...)
	}
	if h.Enabled(feature.Delete) {
		f.Func().Params(recv()).Id("Delete").Params(ctx(), jen.Id("id").Add(t.idType())).Error().Block(
			jen.Id("delete").Call(jen.Id("r").Dot("rows"), jen.Id("id")),
			jen.Return(jen.Nil()),
		)
	}
	if h.Enabled(feature.Search) {
		f.Func().Params(recv()).Id("Search").Params(
			ctx(), jen.Id("_").String(), jen.Id("_").Index().Any(), jen.List(jen.Id("offset"), jen.Id("limit")).Int(),
		).Params(jen.Index().Op("*").Add(t.modelType()), jen.Int64(), jen.Error()).Block(
			jen.Var().Id("items").Index().Op("*").Add(t.modelType()),
			jen.For(jen.List(jen.Id("_"), jen.Id("m")).Op(":=").Range().Id("r").Dot("rows")).Block(
				jen.Id("items").Op("=").Append(jen.Id("items"), jen.Id("m")),
			),
			jen.Id("total").Op(":=").Int64().Call(jen.Len(jen.Id("items"))),
			jen.If(jen.Id("offset").Op(">").Len(jen.Id("items"))).Block(
				jen.Id("offset").Op("=").Len(jen.Id("items")),
			),
			jen.Id("items").Op("=").Id("items").Index(jen.Id("offset"), jen.Empty()),
			jen.If(jen.Id("limit").Op("<").Len(jen.Id("items"))).Block(
				jen.Id("items").Op("=").Id("items").Index(jen.Empty(), jen.Id("limit")),
			),
			jen.Return(jen.Id("items"), jen.Id("total"), jen.Nil()),
		)
	}

	sample := "sample" + e.Name
	f.Func().Id(sample).Params().Op("*").Add(t.dtoType()).Block(
		jen.Return(jen.Op("&").Add(t.dtoType()).Values(t.sampleDict(0, 0))),
	)
	seed := func(g *jen.Group) {
		g.Id("repo").Op(":=").Id("new" + fake).Call()
		g.Id("in").Op(":=").Id(sample).Call()
		g.Id("repo").Dot("rows").Index(jen.Id("in").Dot(id)).Op("=").Qual(h.MapperPkg(), fromDTOName(e)).Call(jen.Id("in"))
		g.Id("svc").Op(":=").Id("New" + serviceName(e)).Call(jen.Id("repo"))
	}
	missing := h.SampleValue(e.ID, 7)

	if h.Enabled(feature.Create) {
		f.Func().Id("Test"+serviceName(e)+"Create").Params(testParam()).Block(
			jen.Id("svc").Op(":=").Id("New"+serviceName(e)).Call(jen.Id("new"+fake).Call()),
			jen.Id("in").Op(":=").Id(sample).Call(),
			jen.List(jen.Id("out"), jen.Err()).Op(":=").Id("svc").Dot("Create").Call(bg(), jen.Id("in")),
			requireNoError(),
			jen.Qual(assertPkg, "Equal").Call(jen.Id("t"), jen.Id("in"), jen.Id("out")),
			jen.Line(),
			jen.List(jen.Id("_"), jen.Err()).Op("=").Id("svc").Dot("Create").Call(bg(), jen.Id("in")),
			jen.Qual(assertPkg, "True").Call(jen.Id("t"), jen.Qual(h.AppErrPkg(), "IsAlreadyExists").Call(jen.Err()), jen.Err()),
		)
	}
	if h.Enabled(feature.ReadByID) {
		f.Func().Id("Test"+serviceName(e)+"Get").Params(testParam()).BlockFunc(func(g *jen.Group) {
			seed(g)
			g.List(jen.Id("out"), jen.Err()).Op(":=").Id("svc").Dot("Get").Call(bg(), jen.Id("in").Dot(id))
			g.Add(requireNoError())
			g.Qual(assertPkg, "Equal").Call(jen.Id("t"), jen.Id("in"), jen.Id("out"))
			g.Line()
			g.List(jen.Id("_"), jen.Err()).Op("=").Id("svc").Dot("Get").Call(bg(), missing)
			g.Qual(assertPkg, "True").Call(jen.Id("t"), jen.Qual(h.AppErrPkg(), "IsNotFound").Call(jen.Err()), jen.Err())
		})
	}
	if h.Enabled(feature.Update) {
		f.Func().Id("Test"+serviceName(e)+"Update").Params(testParam()).BlockFunc(func(g *jen.Group) {
			seed(g)
			g.Id("upd").Op(":=").Op("&").Add(t.dtoType()).Values(t.sampleDict(0, 1))
			g.List(jen.Id("out"), jen.Err()).Op(":=").Id("svc").Dot("Update").Call(bg(), jen.Id("in").Dot(id), jen.Id("upd"))
			g.Add(requireNoError())
			g.Qual(assertPkg, "Equal").Call(jen.Id("t"), jen.Id("upd"), jen.Id("out"))
			g.Line()
			g.List(jen.Id("_"), jen.Err()).Op("=").Id("svc").Dot("Update").Call(bg(), missing, jen.Id("upd"))
			g.Qual(assertPkg, "True").Call(jen.Id("t"), jen.Qual(h.AppErrPkg(), "IsNotFound").Call(jen.Err()), jen.Err())
		})
	}
	if h.Enabled(feature.Delete) {
		f.Func().Id("Test"+serviceName(e)+"Delete").Params(testParam()).BlockFunc(func(g *jen.Group) {
			seed(g)
			g.Qual(requirePkg, "NoError").Call(jen.Id("t"), jen.Id("svc").Dot("Delete").Call(bg(), jen.Id("in").Dot(id)))
			g.Qual(assertPkg, "Empty").Call(jen.Id("t"), jen.Id("repo").Dot("rows"))
			g.Line()
			g.Err().Op(":=").Id("svc").Dot("Delete").Call(bg(), jen.Id("in").Dot(id))
			g.Qual(assertPkg, "True").Call(jen.Id("t"), jen.Qual(h.AppErrPkg(), "IsNotFound").Call(jen.Err()), jen.Err())
		})
	}
	if h.Enabled(feature.Search) {
		f.Func().Id("Test"+serviceName(e)+"Search").Params(testParam()).BlockFunc(func(g *jen.Group) {
			seed(g)
			g.List(jen.Id("page"), jen.Err()).Op(":=").Id("svc").Dot("Search").Call(
				bg(), jen.Nil(), jen.Qual(h.SearchPkg(), "DefaultPage"), jen.Qual(h.SearchPkg(), "DefaultSize"),
			)
			g.Add(requireNoError())
			g.Qual(assertPkg, "EqualValues").Call(jen.Id("t"), jen.Lit(1), jen.Id("page").Dot("Total"))
			g.Qual(assertPkg, "Equal").Call(jen.Id("t"), jen.Index().Op("*").Add(t.dtoType()).Values(jen.Id("in")), jen.Id("page").Dot("Items"))
			g.Line()
			g.List(jen.Id("_"), jen.Err()).Op("=").Id("svc").Dot("Search").Call(
				bg(),
				jen.Index().Qual(h.SearchPkg(), "Criteria").Values(jen.Values(jen.Dict{
					jen.Id("Key"):       jen.Lit("no_such_field"),
					jen.Id("Operation"): jen.Qual(h.SearchPkg(), "OpEQ"),
					jen.Id("Value"):     jen.Lit(1),
				})),
				jen.Lit(0), jen.Lit(10),
			)
			g.Qual(assertPkg, "True").Call(jen.Id("t"), jen.Qual(h.SearchPkg(), "IsFieldError").Call(jen.Err()), jen.Err())
		})
	}
	return f
}

// sampleDict returns the field values of a sample row: the identity uses
// sample idN and the other fields sample n.
func (t *Target) sampleDict(idN, n int) jen.Dict {
	h := t.helper
	d := jen.Dict{}
	for _, fd := range h.Entity().Fields {
		k := n
		if fd.Identity {
			k = idN
		}
		d[jen.Id(fd.StructField())] = h.SampleValue(fd, k)
	}
	return d
}

// GenRepositoryTest generates go-sqlmock tests of the SQL repository.
func (t *Target) GenRepositoryTest() *jen.File {
	h := t.helper
	e := h.Entity()
	name := sqlRepositoryName(e)
	f := h.NewFile("repository")
	f.ImportName(sqlmockPkg, "sqlmock")
	idVal := func() jen.Code { return h.SampleValue(e.ID, 0) }
	values := func(n int) []jen.Code {
		var out []jen.Code
		for _, fd := range e.Fields {
			out = append(out, h.SampleValue(fd, n))
		}
		return out
	}
	cols := func() *jen.Statement { return jen.Qual(h.ModelPkg(), columnsName(e)) }
	expect := func(kind, query string) *jen.Statement {
		return jen.Id("mock").Dot(kind).Call(jen.Qual("regexp", "QuoteMeta").Call(jen.Id(queryConst(e.Name, query))))
	}
	result := func() *jen.Statement {
		return jen.Dot("WillReturnResult").Call(jen.Qual(sqlmockPkg, "NewResult").Call(jen.Lit(0), jen.Lit(1)))
	}

	f.Func().Id("newMock").Params(testParam()).Params(jen.Op("*").Id(name), jen.Qual(sqlmockPkg, "Sqlmock")).Block(
		jen.Id("t").Dot("Helper").Call(),
		jen.List(jen.Id("db"), jen.Id("mock"), jen.Err()).Op(":=").Qual(sqlmockPkg, "New").Call(),
		requireNoError(),
		jen.Id("t").Dot("Cleanup").Call(jen.Func().Params().Block(
			jen.Qual(assertPkg, "NoError").Call(jen.Id("t"), jen.Id("mock").Dot("ExpectationsWereMet").Call()),
			jen.Id("db").Dot("Close").Call(),
		)),
		jen.Return(jen.Id("New"+name).Call(jen.Id("db")), jen.Id("mock")),
	)

	test := func(op string, body func(g *jen.Group)) {
		f.Func().Id("Test"+name+op).Params(testParam()).BlockFunc(func(g *jen.Group) {
			g.List(jen.Id("repo"), jen.Id("mock")).Op(":=").Id("newMock").Call(jen.Id("t"))
			body(g)
		})
	}

	test("Migrate", func(g *jen.Group) {
		g.Add(expect("ExpectExec", "Schema").Add(result()))
		g.Qual(requirePkg, "NoError").Call(jen.Id("t"), jen.Id("repo").Dot("Migrate").Call(bg()))
	})
	if t.needsExists() {
		test("Exists", func(g *jen.Group) {
			g.Add(expect("ExpectQuery", "Exists").Dot("WithArgs").Call(idVal()).
				Dot("WillReturnRows").Call(jen.Qual(sqlmockPkg, "NewRows").Call(jen.Index().String().Values(jen.Lit("count"))).Dot("AddRow").Call(jen.Lit(1))))
			g.List(jen.Id("ok"), jen.Err()).Op(":=").Id("repo").Dot("Exists").Call(bg(), idVal())
			g.Add(requireNoError())
			g.Qual(assertPkg, "True").Call(jen.Id("t"), jen.Id("ok"))
		})
	}
	if t.needsFind() {
		test("FindByID", func(g *jen.Group) {
			g.Add(expect("ExpectQuery", "Find").Dot("WithArgs").Call(idVal()).
				Dot("WillReturnRows").Call(jen.Qual(sqlmockPkg, "NewRows").Call(cols()).Dot("AddRow").Call(values(0)...)))
			g.List(jen.Id("m"), jen.Id("ok"), jen.Err()).Op(":=").Id("repo").Dot("FindByID").Call(bg(), idVal())
			g.Add(requireNoError())
			g.Qual(requirePkg, "True").Call(jen.Id("t"), jen.Id("ok"))
			g.Qual(assertPkg, "Equal").Call(jen.Id("t"), jen.Op("&").Add(t.modelType()).Values(t.sampleDict(0, 0)), jen.Id("m"))
			g.Line()
			g.Add(expect("ExpectQuery", "Find").Dot("WithArgs").Call(idVal()).
				Dot("WillReturnRows").Call(jen.Qual(sqlmockPkg, "NewRows").Call(cols())))
			g.List(jen.Id("_"), jen.Id("ok"), jen.Err()).Op("=").Id("repo").Dot("FindByID").Call(bg(), idVal())
			g.Add(requireNoError())
			g.Qual(assertPkg, "False").Call(jen.Id("t"), jen.Id("ok"))
		})
	}
	if h.Enabled(feature.Create) {
		test("Insert", func(g *jen.Group) {
			g.Add(expect("ExpectExec", "Insert").Dot("WithArgs").Call(values(0)...).Add(result()))
			g.Qual(requirePkg, "NoError").Call(jen.Id("t"), jen.Id("repo").Dot("Insert").Call(bg(), jen.Op("&").Add(t.modelType()).Values(t.sampleDict(0, 0))))
		})
	}
	if h.Enabled(feature.Update) {
		test("Update", func(g *jen.Group) {
			var args []jen.Code
			mutable := e.MutableFields()
			if len(mutable) == 0 {
				args = append(args, idVal())
			}
			for _, fd := range mutable {
				args = append(args, h.SampleValue(fd, 0))
			}
			args = append(args, idVal())
			g.Add(expect("ExpectExec", "Update").Dot("WithArgs").Call(args...).Add(result()))
			g.Qual(requirePkg, "NoError").Call(jen.Id("t"), jen.Id("repo").Dot("Update").Call(bg(), jen.Op("&").Add(t.modelType()).Values(t.sampleDict(0, 0))))
		})
	}
	if h.Enabled(feature.Delete) {
		test("Delete", func(g *jen.Group) {
			g.Add(expect("ExpectExec", "Delete").Dot("WithArgs").Call(idVal()).Add(result()))
			g.Qual(requirePkg, "NoError").Call(jen.Id("t"), jen.Id("repo").Dot("Delete").Call(bg(), idVal()))
		})
	}
	if h.Enabled(feature.Search) {
		test("Search", func(g *jen.Group) {
			g.Add(expect("ExpectQuery", "Count").Dot("WillReturnRows").Call(
				jen.Qual(sqlmockPkg, "NewRows").Call(jen.Index().String().Values(jen.Lit("count"))).Dot("AddRow").Call(jen.Lit(1)),
			))
			g.Add(expect("ExpectQuery", "Select").Dot("WillReturnRows").Call(
				jen.Qual(sqlmockPkg, "NewRows").Call(cols()).Dot("AddRow").Call(values(0)...),
			))
			g.List(jen.Id("items"), jen.Id("total"), jen.Err()).Op(":=").Id("repo").Dot("Search").Call(
				bg(), jen.Lit(""), jen.Nil(), jen.Lit(0), jen.Lit(10),
			)
			g.Add(requireNoError())
			g.Qual(assertPkg, "EqualValues").Call(jen.Id("t"), jen.Lit(1), jen.Id("total"))
			g.Qual(assertPkg, "Len").Call(jen.Id("t"), jen.Id("items"), jen.Lit(1))
		})
	}
	return f
}
