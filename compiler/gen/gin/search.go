package gin

import (
	"encoding/json"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/predicate"
)

// GenSearchCriteria generates the criteria and result page types.
func (t *Target) GenSearchCriteria() *jen.File {
	f := t.helper.NewFile("search")
	f.PackageComment("Package search translates search criteria into SQL conditions.")

	f.Comment("Criteria is one filter condition of a search request.")
	f.Type().Id("Criteria").Struct(
		jen.Id("Key").String().Tag(map[string]string{"json": "key"}),
		jen.Id("Operation").Id("Op").Tag(map[string]string{"json": "operation"}),
		jen.Id("Value").Any().Tag(map[string]string{"json": "value"}),
	)

	f.Comment("Paging defaults of search requests.")
	f.Const().Defs(
		jen.Id("DefaultPage").Op("=").Lit(0),
		jen.Id("DefaultSize").Op("=").Lit(10),
	)

	f.Comment("Page is one page of search results.")
	f.Type().Id("Page").Types(jen.Id("T").Any()).Struct(
		jen.Id("Items").Index().Op("*").Id("T").Tag(map[string]string{"json": "items"}),
		jen.Id("Page").Int().Tag(map[string]string{"json": "page"}),
		jen.Id("Size").Int().Tag(map[string]string{"json": "size"}),
		jen.Id("Total").Int64().Tag(map[string]string{"json": "total"}),
	)
	return f
}

// GenPredicateBuilder generates the operator enum and the criteria to SQL
// condition builder for the backend dialect.
func (t *Target) GenPredicateBuilder() *jen.File {
	h := t.helper
	d := h.Dialect()
	f := h.NewFile("search")

	f.Comment("Op is a search operator. Unrecognized names decode to OpNone.")
	f.Type().Id("Op").Uint8()

	ops := predicate.Ops()
	f.Comment("Operators.")
	f.Const().DefsFunc(func(g *jen.Group) {
		g.Id("OpNone").Id("Op").Op("=").Iota()
		for _, op := range ops {
			g.Id(opIdent(op))
		}
	})

	f.Var().Id("opNames").Op("=").Map(jen.String()).Id("Op").Values(jen.DictFunc(func(dict jen.Dict) {
		for _, op := range ops {
			dict[jen.Lit(op.String())] = jen.Id(opIdent(op))
		}
	}))

	f.Var().Id("opSQL").Op("=").Map(jen.Id("Op")).String().Values(jen.DictFunc(func(dict jen.Dict) {
		for _, op := range ops {
			sql := op.SQL()
			if op == predicate.OpLike {
				sql = d.Like()
			}
			dict[jen.Id(opIdent(op))] = jen.Lit(sql)
		}
	}))

	f.Comment("ParseOp returns the operator of a name, or OpNone.")
	f.Func().Id("ParseOp").Params(jen.Id("s").String()).Id("Op").Block(
		jen.Return(jen.Id("opNames").Index(jen.Qual("strings", "ToLower").Call(jen.Qual("strings", "TrimSpace").Call(jen.Id("s"))))),
	)

	f.Comment("String returns the name of the operator.")
	f.Func().Params(jen.Id("o").Id("Op")).Id("String").Params().String().Block(
		jen.For(jen.List(jen.Id("name"), jen.Id("op")).Op(":=").Range().Id("opNames")).Block(
			jen.If(jen.Id("op").Op("==").Id("o")).Block(jen.Return(jen.Id("name"))),
		),
		jen.Return(jen.Lit("none")),
	)

	f.Comment("MarshalText implements encoding.TextMarshaler.")
	f.Func().Params(jen.Id("o").Id("Op")).Id("MarshalText").Params().Params(jen.Index().Byte(), jen.Error()).Block(
		jen.Return(jen.Index().Byte().Call(jen.Id("o").Dot("String").Call()), jen.Nil()),
	)

	f.Comment("UnmarshalText implements encoding.TextUnmarshaler. It never fails.")
	f.Func().Params(jen.Id("o").Op("*").Id("Op")).Id("UnmarshalText").Params(jen.Id("b").Index().Byte()).Error().Block(
		jen.Op("*").Id("o").Op("=").Id("ParseOp").Call(jen.String().Call(jen.Id("b"))),
		jen.Return(jen.Nil()),
	)

	f.Comment("FieldError is returned for a criterion naming an unknown attribute.")
	f.Type().Id("FieldError").Struct(jen.Id("Key").String())
	f.Func().Params(jen.Id("e").Op("*").Id("FieldError")).Id("Error").Params().String().Block(
		jen.Return(jen.Lit("search: unknown field ").Op("+").Qual("strconv", "Quote").Call(jen.Id("e").Dot("Key"))),
	)
	f.Comment("IsFieldError reports if err is, or wraps, a FieldError.")
	f.Func().Id("IsFieldError").Params(jen.Err().Error()).Bool().Block(
		jen.Var().Id("e").Op("*").Id("FieldError"),
		jen.Return(jen.Qual("errors", "As").Call(jen.Err(), jen.Op("&").Id("e"))),
	)

	t.buildDoc(f)
	f.Func().Id("Build").Params(
		jen.Id("criteria").Index().Id("Criteria"),
		jen.Id("column").Func().Params(jen.String()).Params(jen.String(), jen.Bool()),
	).Params(jen.String(), jen.Index().Any(), jen.Error()).Block(
		jen.Var().Defs(
			jen.Id("conds").Index().String(),
			jen.Id("args").Index().Any(),
		),
		jen.For(jen.List(jen.Id("_"), jen.Id("c")).Op(":=").Range().Id("criteria")).Block(
			jen.If(jen.List(jen.Id("_"), jen.Id("known")).Op(":=").Id("opSQL").Index(jen.Id("c").Dot("Operation")), jen.Op("!").Id("known")).Block(
				jen.Comment("OpNone and values outside the operator set add no condition."),
				jen.Continue(),
			),
			jen.List(jen.Id("col"), jen.Id("ok")).Op(":=").Id("column").Call(jen.Id("c").Dot("Key")),
			jen.If(jen.Op("!").Id("ok")).Block(
				jen.Return(jen.Lit(""), jen.Nil(), jen.Op("&").Id("FieldError").Values(jen.Id("Key").Op(":").Id("c").Dot("Key"))),
			),
			jen.Id("col").Op("=").Id("quote").Call(jen.Id("col")),
			jen.Switch(jen.Id("op").Op(":=").Id("c").Dot("Operation"), jen.Id("op")).Block(
				jen.Case(jen.Id("OpEQ"), jen.Id("OpNEQ")).Block(
					jen.Id("args").Op("=").Append(jen.Id("args"), jen.Id("c").Dot("Value")),
					jen.Id("conds").Op("=").Append(jen.Id("conds"), jen.Id("col").Op("+").Lit(" ").Op("+").Id("opSQL").Index(jen.Id("op")).Op("+").Lit(" ").Op("+").Id("placeholder").Call(jen.Len(jen.Id("args")))),
				),
				jen.Case(jen.Id("OpLike")).Block(
					jen.Id("args").Op("=").Append(jen.Id("args"), jen.Lit("%").Op("+").Qual("fmt", "Sprint").Call(jen.Id("c").Dot("Value")).Op("+").Lit("%")),
					jen.Id("conds").Op("=").Append(jen.Id("conds"), jen.Id("col").Op("+").Lit(" ").Op("+").Id("opSQL").Index(jen.Id("op")).Op("+").Lit(" ").Op("+").Id("placeholder").Call(jen.Len(jen.Id("args")))),
				),
				jen.Case(jen.Id("OpLT"), jen.Id("OpLTE"), jen.Id("OpGT"), jen.Id("OpGTE")).Block(
					jen.Comment("Ordering compares the textual representation of the value."),
					jen.Id("args").Op("=").Append(jen.Id("args"), jen.Qual("fmt", "Sprint").Call(jen.Id("c").Dot("Value"))),
					jen.Id("conds").Op("=").Append(jen.Id("conds"), jen.Lit("CAST(").Op("+").Id("col").Op("+").Lit(" AS "+d.TextType()+") ").Op("+").Id("opSQL").Index(jen.Id("op")).Op("+").Lit(" ").Op("+").Id("placeholder").Call(jen.Len(jen.Id("args")))),
				),
			),
		),
		jen.Return(jen.Qual("strings", "Join").Call(jen.Id("conds"), jen.Lit(" AND ")), jen.Id("args"), jen.Nil()),
	)

	q := d.Quote("")[:1]
	f.Func().Id("quote").Params(jen.Id("ident").String()).String().Block(
		jen.Return(jen.Lit(q).Op("+").Qual("strings", "ReplaceAll").Call(jen.Id("ident"), jen.Lit(q), jen.Lit(q+q)).Op("+").Lit(q)),
	)
	if d.Placeholder(2) == "?" {
		f.Func().Id("placeholder").Params(jen.Int()).String().Block(jen.Return(jen.Lit("?")))
	} else {
		f.Func().Id("placeholder").Params(jen.Id("n").Int()).String().Block(
			jen.Return(jen.Lit("$").Op("+").Qual("strconv", "Itoa").Call(jen.Id("n"))),
		)
	}
	return f
}

// buildDoc writes the doc comment of Build with a worked example.
func (t *Target) buildDoc(f *jen.File) {
	f.Comment("Build translates criteria into a SQL condition joined by AND with its")
	f.Comment("positional arguments. column maps an attribute name to its column. An")
	f.Comment("empty list yields an empty condition that matches every row.")
	criteria, cond, ok := t.helper.SearchExample()
	if !ok {
		return
	}
	b, err := json.Marshal(criteria)
	if err != nil {
		return
	}
	f.Comment("")
	f.Comment("For example, the criteria")
	f.Comment("")
	f.Comment("\t" + string(b))
	f.Comment("")
	f.Comment("translate to")
	f.Comment("")
	f.Comment("\t" + strings.ReplaceAll(cond, "\n", " "))
}

func opIdent(op predicate.Op) string {
	switch op {
	case predicate.OpLike:
		return "OpLike"
	default:
		return "Op" + strings.ToUpper(op.String())
	}
}
