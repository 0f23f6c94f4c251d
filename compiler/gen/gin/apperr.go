package gin

import (
	"github.com/dave/jennifer/jen"
)

// GenNotFoundError generates the error returned when a row does not exist.
func (t *Target) GenNotFoundError() *jen.File {
	f := t.helper.NewFile("apperr")
	f.PackageComment("Package apperr holds the error taxonomy of the service.")

	f.Comment("NotFoundError is returned when no row has the requested identity.")
	f.Type().Id("NotFoundError").Struct(
		jen.Id("Entity").String(),
		jen.Id("ID").Any(),
	)
	f.Comment("Error implements the error interface.")
	f.Func().Params(jen.Id("e").Op("*").Id("NotFoundError")).Id("Error").Params().String().Block(
		jen.Return(jen.Qual("fmt", "Sprintf").Call(jen.Lit("%s not found with id: %v"), jen.Id("e").Dot("Entity"), jen.Id("e").Dot("ID"))),
	)
	f.Comment("NotFound returns a NotFoundError.")
	f.Func().Id("NotFound").Params(jen.Id("entity").String(), jen.Id("id").Any()).Error().Block(
		jen.Return(jen.Op("&").Id("NotFoundError").Values(jen.Id("Entity").Op(":").Id("entity"), jen.Id("ID").Op(":").Id("id"))),
	)
	f.Comment("IsNotFound reports if err is, or wraps, a NotFoundError.")
	f.Func().Id("IsNotFound").Params(jen.Err().Error()).Bool().Block(
		jen.Var().Id("e").Op("*").Id("NotFoundError"),
		jen.Return(jen.Qual("errors", "As").Call(jen.Err(), jen.Op("&").Id("e"))),
	)
	return f
}

// GenAlreadyExistsError generates the error returned on identity conflicts.
func (t *Target) GenAlreadyExistsError() *jen.File {
	f := t.helper.NewFile("apperr")

	f.Comment("AlreadyExistsError is returned when a row with the identity already exists.")
	f.Type().Id("AlreadyExistsError").Struct(
		jen.Id("Entity").String(),
		jen.Id("ID").Any(),
	)
	f.Comment("Error implements the error interface.")
	f.Func().Params(jen.Id("e").Op("*").Id("AlreadyExistsError")).Id("Error").Params().String().Block(
		jen.Return(jen.Qual("fmt", "Sprintf").Call(jen.Lit("%s already exists with id: %v"), jen.Id("e").Dot("Entity"), jen.Id("e").Dot("ID"))),
	)
	f.Comment("AlreadyExists returns an AlreadyExistsError.")
	f.Func().Id("AlreadyExists").Params(jen.Id("entity").String(), jen.Id("id").Any()).Error().Block(
		jen.Return(jen.Op("&").Id("AlreadyExistsError").Values(jen.Id("Entity").Op(":").Id("entity"), jen.Id("ID").Op(":").Id("id"))),
	)
	f.Comment("IsAlreadyExists reports if err is, or wraps, an AlreadyExistsError.")
	f.Func().Id("IsAlreadyExists").Params(jen.Err().Error()).Bool().Block(
		jen.Var().Id("e").Op("*").Id("AlreadyExistsError"),
		jen.Return(jen.Qual("errors", "As").Call(jen.Err(), jen.Op("&").Id("e"))),
	)
	return f
}

// GenInternalError generates the generic failure wrapper.
func (t *Target) GenInternalError() *jen.File {
	f := t.helper.NewFile("apperr")

	f.Comment("InternalError wraps an unexpected failure of an operation.")
	f.Type().Id("InternalError").Struct(
		jen.Id("Op").String(),
		jen.Id("Err").Error(),
	)
	f.Comment("Error implements the error interface.")
	f.Func().Params(jen.Id("e").Op("*").Id("InternalError")).Id("Error").Params().String().Block(
		jen.Return(jen.Id("e").Dot("Op").Op("+").Lit(": ").Op("+").Id("e").Dot("Err").Dot("Error").Call()),
	)
	f.Comment("Unwrap returns the underlying error.")
	f.Func().Params(jen.Id("e").Op("*").Id("InternalError")).Id("Unwrap").Params().Error().Block(
		jen.Return(jen.Id("e").Dot("Err")),
	)
	f.Comment("Internal wraps err as an InternalError. A nil err returns nil.")
	f.Func().Id("Internal").Params(jen.Id("op").String(), jen.Err().Error()).Error().Block(
		jen.If(jen.Err().Op("==").Nil()).Block(jen.Return(jen.Nil())),
		jen.Return(jen.Op("&").Id("InternalError").Values(jen.Id("Op").Op(":").Id("op"), jen.Id("Err").Op(":").Err())),
	)
	return f
}
