package gin

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/feature"
)

// GenService generates the business-logic layer. It holds one method per
// enabled operation.
func (t *Target) GenService() *jen.File {
	h := t.helper
	e := h.Entity()
	name := serviceName(e)
	repo := jen.Qual(h.RepositoryPkg(), repositoryName(e))
	f := h.NewFile("service")

	f.Commentf("%s implements the %s operations.", name, e.Name)
	f.Type().Id(name).Struct(jen.Id("repo").Add(repo.Clone()))

	f.Commentf("New%s returns a service backed by repo.", name)
	f.Func().Id("New"+name).Params(jen.Id("repo").Add(repo.Clone())).Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values(jen.Id("repo").Op(":").Id("repo"))),
	)

	recv := func() *jen.Statement { return jen.Id("s").Op("*").Id(name) }
	label := e.Label()
	internal := func(op string) *jen.Statement {
		return jen.Qual(h.AppErrPkg(), "Internal").Call(jen.Lit(op+" "+label), jen.Err())
	}
	notFound := func(id jen.Code) *jen.Statement {
		return jen.Qual(h.AppErrPkg(), "NotFound").Call(jen.Lit(e.Name), id)
	}
	toDTO := func(m jen.Code) *jen.Statement {
		return jen.Qual(h.MapperPkg(), toDTOName(e)).Call(m)
	}
	idParam := func() *jen.Statement { return jen.Id("id").Add(t.idType()) }
	dtoPtr := func() *jen.Statement { return jen.Op("*").Add(t.dtoType()) }

	if h.Enabled(feature.Create) {
		f.Commentf("Create stores a new %s. It fails with an AlreadyExistsError if the identity is taken.", e.Name)
		f.Func().Params(recv()).Id("Create").Params(ctxParam(), jen.Id("in").Add(dtoPtr())).Params(dtoPtr(), jen.Error()).Block(
			jen.List(jen.Id("exists"), jen.Err()).Op(":=").Id("s").Dot("repo").Dot("Exists").Call(jen.Id("ctx"), jen.Id("in").Dot(e.ID.StructField())),
			ifErrReturn(jen.Nil(), internal("create")),
			jen.If(jen.Id("exists")).Block(
				jen.Return(jen.Nil(), jen.Qual(h.AppErrPkg(), "AlreadyExists").Call(jen.Lit(e.Name), jen.Id("in").Dot(e.ID.StructField()))),
			),
			jen.Id("m").Op(":=").Qual(h.MapperPkg(), fromDTOName(e)).Call(jen.Id("in")),
			jen.If(jen.Err().Op(":=").Id("s").Dot("repo").Dot("Insert").Call(jen.Id("ctx"), jen.Id("m")), jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Nil(), internal("create")),
			),
			jen.Return(toDTO(jen.Id("m")), jen.Nil()),
		)
	}

	if h.Enabled(feature.ReadByID) {
		f.Commentf("Get returns the %s with the identity. It fails with a NotFoundError if it does not exist.", e.Name)
		f.Func().Params(recv()).Id("Get").Params(ctxParam(), idParam()).Params(dtoPtr(), jen.Error()).Block(
			jen.List(jen.Id("m"), jen.Id("ok"), jen.Err()).Op(":=").Id("s").Dot("repo").Dot("FindByID").Call(jen.Id("ctx"), jen.Id("id")),
			ifErrReturn(jen.Nil(), internal("get")),
			jen.If(jen.Op("!").Id("ok")).Block(jen.Return(jen.Nil(), notFound(jen.Id("id")))),
			jen.Return(toDTO(jen.Id("m")), jen.Nil()),
		)
	}

	if h.Enabled(feature.Update) {
		f.Commentf("Update replaces the attributes of the %s with the identity. The identity itself is never changed.", e.Name)
		f.Func().Params(recv()).Id("Update").Params(ctxParam(), idParam(), jen.Id("in").Add(dtoPtr())).Params(dtoPtr(), jen.Error()).Block(
			jen.List(jen.Id("m"), jen.Id("ok"), jen.Err()).Op(":=").Id("s").Dot("repo").Dot("FindByID").Call(jen.Id("ctx"), jen.Id("id")),
			ifErrReturn(jen.Nil(), internal("update")),
			jen.If(jen.Op("!").Id("ok")).Block(jen.Return(jen.Nil(), notFound(jen.Id("id")))),
			jen.Qual(h.MapperPkg(), updateName(e)).Call(jen.Id("m"), jen.Id("in")),
			jen.If(jen.Err().Op(":=").Id("s").Dot("repo").Dot("Update").Call(jen.Id("ctx"), jen.Id("m")), jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Nil(), internal("update")),
			),
			jen.Return(toDTO(jen.Id("m")), jen.Nil()),
		)
	}

	if h.Enabled(feature.Delete) {
		f.Commentf("Delete removes the %s with the identity. It fails with a NotFoundError if it does not exist.", e.Name)
		f.Func().Params(recv()).Id("Delete").Params(ctxParam(), idParam()).Error().Block(
			jen.List(jen.Id("exists"), jen.Err()).Op(":=").Id("s").Dot("repo").Dot("Exists").Call(jen.Id("ctx"), jen.Id("id")),
			ifErrReturn(internal("delete")),
			jen.If(jen.Op("!").Id("exists")).Block(jen.Return(notFound(jen.Id("id")))),
			jen.Return(jen.Qual(h.AppErrPkg(), "Internal").Call(
				jen.Lit("delete "+label),
				jen.Id("s").Dot("repo").Dot("Delete").Call(jen.Id("ctx"), jen.Id("id")),
			)),
		)
	}

	if h.Enabled(feature.Search) {
		page := jen.Qual(h.SearchPkg(), "Page").Types(t.dtoType())
		f.Commentf("Search returns one page of %s rows matching every criterion.", e.Name)
		f.Func().Params(recv()).Id("Search").Params(
			ctxParam(),
			jen.Id("criteria").Index().Qual(h.SearchPkg(), "Criteria"),
			jen.List(jen.Id("page"), jen.Id("size")).Int(),
		).Params(jen.Op("*").Add(page.Clone()), jen.Error()).Block(
			jen.List(jen.Id("where"), jen.Id("args"), jen.Err()).Op(":=").Qual(h.SearchPkg(), "Build").Call(
				jen.Id("criteria"), jen.Qual(h.ModelPkg(), columnName(e)),
			),
			ifErrReturn(jen.Nil(), jen.Err()),
			jen.List(jen.Id("rows"), jen.Id("total"), jen.Err()).Op(":=").Id("s").Dot("repo").Dot("Search").Call(
				jen.Id("ctx"), jen.Id("where"), jen.Id("args"), jen.Id("page").Op("*").Id("size"), jen.Id("size"),
			),
			ifErrReturn(jen.Nil(), internal("search")),
			jen.Id("items").Op(":=").Make(jen.Index().Add(dtoPtr()), jen.Lit(0), jen.Len(jen.Id("rows"))),
			jen.For(jen.List(jen.Id("_"), jen.Id("m")).Op(":=").Range().Id("rows")).Block(
				jen.Id("items").Op("=").Append(jen.Id("items"), toDTO(jen.Id("m"))),
			),
			jen.Return(jen.Op("&").Add(page.Clone()).Values(jen.Dict{
				jen.Id("Items"): jen.Id("items"),
				jen.Id("Page"):  jen.Id("page"),
				jen.Id("Size"):  jen.Id("size"),
				jen.Id("Total"): jen.Id("total"),
			}), jen.Nil()),
		)
	}
	return f
}
