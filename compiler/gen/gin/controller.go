package gin

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/feature"
	"github.com/syssam/crudgen/schema"
)

// GenController generates the request handlers and their routes. Every
// enabled operation contributes one handler and one route; without operations
// Register mounts nothing.
func (t *Target) GenController() *jen.File {
	h := t.helper
	e := h.Entity()
	name := controllerName(e)
	svc := func() *jen.Statement { return jen.Op("*").Qual(h.ServicePkg(), serviceName(e)) }
	f := h.NewFile("controller")

	f.Commentf("%s exposes %s over HTTP.", name, serviceName(e))
	f.Type().Id(name).Struct(jen.Id("service").Add(svc()))

	f.Commentf("New%s returns a controller of service.", name)
	f.Func().Id("New"+name).Params(jen.Id("service").Add(svc())).Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values(jen.Id("service").Op(":").Id("service"))),
	)

	ops := h.Selection().Operations()
	f.Commentf("Register mounts the %s routes on r.", e.Route)
	f.Func().Params(jen.Id("h").Op("*").Id(name)).Id("Register").Params(jen.Id("r").Qual(ginPkg, "IRouter")).BlockFunc(func(g *jen.Group) {
		if len(ops) == 0 {
			return
		}
		g.Id("g").Op(":=").Id("r").Dot("Group").Call(jen.Lit(e.Route))
		for _, op := range ops {
			method, path, handler := route(op)
			g.Id("g").Dot(method).Call(jen.Lit(path), jen.Id("h").Dot(handler))
		}
	})

	recv := func() *jen.Statement { return jen.Id("h").Op("*").Id(name) }
	gctx := func() *jen.Statement { return jen.Id("c").Op("*").Qual(ginPkg, "Context") }
	rctx := func() *jen.Statement { return jen.Id("c").Dot("Request").Dot("Context").Call() }

	for _, op := range ops {
		method, path, handler := route(op)
		f.Commentf("%s handles %s %s%s.", handler, method, e.Route, path)
		switch op {
		case feature.Create:
			f.Func().Params(recv()).Id(handler).Params(gctx()).Block(
				jen.Var().Id("in").Add(t.dtoType()),
				t.bindJSON(jen.Op("&").Id("in")),
				jen.List(jen.Id("out"), jen.Err()).Op(":=").Id("h").Dot("service").Dot("Create").Call(rctx(), jen.Op("&").Id("in")),
				abortOnErr(),
				jen.Id("c").Dot("JSON").Call(jen.Qual(httpPkg, "StatusCreated"), jen.Id("out")),
			)
		case feature.ReadByID:
			f.Func().Params(recv()).Id(handler).Params(gctx()).BlockFunc(func(g *jen.Group) {
				t.parseID(g)
				g.List(jen.Id("out"), jen.Err()).Op(":=").Id("h").Dot("service").Dot("Get").Call(rctx(), jen.Id("id"))
				g.Add(abortOnErr())
				g.Id("c").Dot("JSON").Call(jen.Qual(httpPkg, "StatusOK"), jen.Id("out"))
			})
		case feature.Update:
			f.Func().Params(recv()).Id(handler).Params(gctx()).BlockFunc(func(g *jen.Group) {
				t.parseID(g)
				g.Var().Id("in").Add(t.dtoType())
				g.Add(t.bindJSON(jen.Op("&").Id("in")))
				g.List(jen.Id("out"), jen.Err()).Op(":=").Id("h").Dot("service").Dot("Update").Call(rctx(), jen.Id("id"), jen.Op("&").Id("in"))
				g.Add(abortOnErr())
				g.Id("c").Dot("JSON").Call(jen.Qual(httpPkg, "StatusOK"), jen.Id("out"))
			})
		case feature.Delete:
			f.Func().Params(recv()).Id(handler).Params(gctx()).BlockFunc(func(g *jen.Group) {
				t.parseID(g)
				g.If(
					jen.Err().Op(":=").Id("h").Dot("service").Dot("Delete").Call(rctx(), jen.Id("id")),
					jen.Err().Op("!=").Nil(),
				).Block(
					jen.Id("_").Op("=").Id("c").Dot("Error").Call(jen.Err()),
					jen.Return(),
				)
				g.Id("c").Dot("Status").Call(jen.Qual(httpPkg, "StatusNoContent"))
			})
		case feature.Search:
			f.Func().Params(recv()).Id(handler).Params(gctx()).Block(
				t.queryInt("page", "DefaultPage", 0),
				t.queryInt("size", "DefaultSize", 1),
				jen.Var().Id("criteria").Index().Qual(h.SearchPkg(), "Criteria"),
				jen.If(
					jen.Err().Op(":=").Id("c").Dot("ShouldBindJSON").Call(jen.Op("&").Id("criteria")),
					jen.Err().Op("!=").Nil().Op("&&").Op("!").Qual("errors", "Is").Call(jen.Err(), jen.Qual("io", "EOF")),
				).Block(badRequest(jen.Err().Dot("Error").Call())...),
				jen.List(jen.Id("out"), jen.Err()).Op(":=").Id("h").Dot("service").Dot("Search").Call(
					rctx(), jen.Id("criteria"), jen.Id("page"), jen.Id("size"),
				),
				abortOnErr(),
				jen.Id("c").Dot("JSON").Call(jen.Qual(httpPkg, "StatusOK"), jen.Id("out")),
			)
		}
	}
	return f
}

// route returns the method, relative path and handler name of an operation.
func route(op feature.Operation) (method, path, handler string) {
	switch op {
	case feature.Create:
		return "POST", "", "Create"
	case feature.ReadByID:
		return "GET", "/:id", "Get"
	case feature.Update:
		return "PUT", "/:id", "Update"
	case feature.Delete:
		return "DELETE", "/:id", "Delete"
	default:
		return "POST", "/search", "Search"
	}
}

func badRequest(msg jen.Code) []jen.Code {
	return []jen.Code{
		jen.Id("c").Dot("JSON").Call(jen.Qual(httpPkg, "StatusBadRequest"), jen.Qual(ginPkg, "H").Values(jen.Dict{
			jen.Lit("error"): msg,
		})),
		jen.Return(),
	}
}

// abortOnErr hands err to the error handler middleware.
func abortOnErr() *jen.Statement {
	return jen.If(jen.Err().Op("!=").Nil()).Block(
		jen.Id("_").Op("=").Id("c").Dot("Error").Call(jen.Err()),
		jen.Return(),
	)
}

func (t *Target) bindJSON(dst jen.Code) *jen.Statement {
	return jen.If(
		jen.Err().Op(":=").Id("c").Dot("ShouldBindJSON").Call(dst),
		jen.Err().Op("!=").Nil(),
	).Block(badRequest(jen.Err().Dot("Error").Call())...)
}

// parseID declares id from the path. Non-text identities also declare err.
func (t *Target) parseID(g *jen.Group) {
	id := t.helper.Entity().ID
	param := jen.Id("c").Dot("Param").Call(jen.Lit("id"))
	var parse *jen.Statement
	switch id.Type {
	case schema.Integer:
		parse = jen.Qual("strconv", "ParseInt").Call(param, jen.Lit(10), jen.Lit(64))
	case schema.Decimal:
		parse = jen.Qual("strconv", "ParseFloat").Call(param, jen.Lit(64))
	case schema.Boolean:
		parse = jen.Qual("strconv", "ParseBool").Call(param)
	case schema.Date:
		parse = jen.Qual("time", "Parse").Call(jen.Qual("time", "DateOnly"), param)
	default:
		g.Id("id").Op(":=").Add(param)
		return
	}
	g.List(jen.Id("id"), jen.Err()).Op(":=").Add(parse)
	g.If(jen.Err().Op("!=").Nil()).Block(badRequest(jen.Lit("invalid id: ").Op("+").Add(param.Clone()))...)
}

// queryInt parses a non-negative query integer with a search package default.
func (t *Target) queryInt(name, def string, min int) *jen.Statement {
	return jen.List(jen.Id(name), jen.Err()).Op(":=").Qual("strconv", "Atoi").Call(
		jen.Id("c").Dot("DefaultQuery").Call(
			jen.Lit(name),
			jen.Qual("strconv", "Itoa").Call(jen.Qual(t.helper.SearchPkg(), def)),
		),
	).Line().If(jen.Err().Op("!=").Nil().Op("||").Id(name).Op("<").Lit(min)).Block(
		badRequest(jen.Lit("invalid "+name+": ").Op("+").Id("c").Dot("Query").Call(jen.Lit(name)))...,
	)
}

// GenErrorHandler generates the middleware mapping the error taxonomy to
// responses.
func (t *Target) GenErrorHandler() *jen.File {
	h := t.helper
	f := h.NewFile("controller")
	status := func(code string, msg jen.Code) *jen.Statement {
		return jen.Id("c").Dot("JSON").Call(jen.Qual(httpPkg, code), jen.Qual(ginPkg, "H").Values(jen.Dict{
			jen.Lit("error"): msg,
		}))
	}
	msg := func() *jen.Statement { return jen.Err().Dot("Error").Call() }

	f.Comment("ErrorHandler writes the response of the last error added by a handler.")
	f.Comment("NotFound maps to 404, AlreadyExists to 409 and any other error to 500.")
	f.Func().Id("ErrorHandler").Params().Qual(ginPkg, "HandlerFunc").Block(
		jen.Return(jen.Func().Params(jen.Id("c").Op("*").Qual(ginPkg, "Context")).Block(
			jen.Id("c").Dot("Next").Call(),
			jen.If(jen.Len(jen.Id("c").Dot("Errors")).Op("==").Lit(0).Op("||").Id("c").Dot("Writer").Dot("Written").Call()).Block(
				jen.Return(),
			),
			jen.Err().Op(":=").Id("c").Dot("Errors").Dot("Last").Call().Dot("Err"),
			jen.Switch().BlockFunc(func(g *jen.Group) {
				g.Case(jen.Qual(h.AppErrPkg(), "IsNotFound").Call(jen.Err())).Block(
					status("StatusNotFound", msg()),
				)
				g.Case(jen.Qual(h.AppErrPkg(), "IsAlreadyExists").Call(jen.Err())).Block(
					status("StatusConflict", msg()),
				)
				if h.Enabled(feature.Search) {
					g.Case(jen.Qual(h.SearchPkg(), "IsFieldError").Call(jen.Err())).Block(
						status("StatusBadRequest", msg()),
					)
				}
				g.Default().Block(
					status("StatusInternalServerError", jen.Lit("internal server error: ").Op("+").Add(msg())),
				)
			}),
		)),
	)
	return f
}
