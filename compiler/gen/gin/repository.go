package gin

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/feature"
)

// GenRepositoryContract generates the persistence-access interface. Each
// enabled operation contributes the methods it needs; without operations the
// interface is empty.
func (t *Target) GenRepositoryContract() *jen.File {
	h := t.helper
	e := h.Entity()
	f := h.NewFile("repository")

	f.Commentf("%s is the persistence surface of %s.", repositoryName(e), e.Name)
	f.Type().Id(repositoryName(e)).InterfaceFunc(func(g *jen.Group) {
		if t.needsExists() {
			g.Comment("Exists reports if a row with the identity exists.")
			g.Id("Exists").Params(ctxParam(), jen.Id("id").Add(t.idType())).Params(jen.Bool(), jen.Error())
		}
		if t.needsFind() {
			g.Comment("FindByID returns the row with the identity. ok is false when it does not exist.")
			g.Id("FindByID").Params(ctxParam(), jen.Id("id").Add(t.idType())).
				Params(jen.Op("*").Add(t.modelType()), jen.Bool(), jen.Error())
		}
		if h.Enabled(feature.Create) {
			g.Comment("Insert stores a new row.")
			g.Id("Insert").Params(ctxParam(), jen.Id("m").Op("*").Add(t.modelType())).Error()
		}
		if h.Enabled(feature.Update) {
			g.Comment("Update stores the attributes of an existing row.")
			g.Id("Update").Params(ctxParam(), jen.Id("m").Op("*").Add(t.modelType())).Error()
		}
		if h.Enabled(feature.Delete) {
			g.Comment("Delete removes the row with the identity.")
			g.Id("Delete").Params(ctxParam(), jen.Id("id").Add(t.idType())).Error()
		}
		if h.Enabled(feature.Search) {
			g.Comment("Search returns one page of rows matching the condition and the total match count.")
			g.Id("Search").Params(
				ctxParam(),
				jen.Id("where").String(),
				jen.Id("args").Index().Any(),
				jen.List(jen.Id("offset"), jen.Id("limit")).Int(),
			).Params(jen.Index().Op("*").Add(t.modelType()), jen.Int64(), jen.Error())
		}
	})
	return f
}

func (t *Target) needsExists() bool {
	return t.helper.Enabled(feature.Create) || t.helper.Enabled(feature.Delete)
}

func (t *Target) needsFind() bool {
	return t.helper.Enabled(feature.ReadByID) || t.helper.Enabled(feature.Update)
}

// queries holds the SQL statements of the repository.
type queries struct {
	Select, Count, Exists, Find, Insert, Update, Delete, OrderBy string
}

func (t *Target) queries() queries {
	h := t.helper
	e := h.Entity()
	d := h.Dialect()
	table := d.Quote(e.Table)
	id := d.Quote(e.ID.Column())

	cols := make([]string, len(e.Fields))
	phs := make([]string, len(e.Fields))
	for i, fd := range e.Fields {
		cols[i] = d.Quote(fd.Column())
		phs[i] = d.Placeholder(i + 1)
	}
	var sets []string
	for i, fd := range e.MutableFields() {
		sets = append(sets, d.Quote(fd.Column())+" = "+d.Placeholder(i+1))
	}
	if len(sets) == 0 {
		sets = append(sets, id+" = "+d.Placeholder(1))
	}
	q := queries{
		Select:  fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), table),
		Count:   "SELECT COUNT(*) FROM " + table,
		Exists:  fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = %s", table, id, d.Placeholder(1)),
		Insert:  fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(phs, ", ")),
		Update:  fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s", table, strings.Join(sets, ", "), id, d.Placeholder(len(sets)+1)),
		Delete:  fmt.Sprintf("DELETE FROM %s WHERE %s = %s", table, id, d.Placeholder(1)),
		OrderBy: " ORDER BY " + id,
	}
	q.Find = fmt.Sprintf("%s WHERE %s = %s", q.Select, id, d.Placeholder(1))
	return q
}

func queryConst(e string, name string) string {
	return lowerFirst(e) + name + "Query"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// GenRepository generates the database/sql implementation of the contract.
func (t *Target) GenRepository() *jen.File {
	h := t.helper
	e := h.Entity()
	q := t.queries()
	name := sqlRepositoryName(e)
	f := h.NewFile("repository")

	f.Commentf("%s implements %s with database/sql.", name, repositoryName(e))
	f.Type().Id(name).Struct(jen.Id("db").Op("*").Qual(sqlPkg, "DB"))

	f.Commentf("New%s returns a repository backed by db.", name)
	f.Func().Id("New"+name).Params(jen.Id("db").Op("*").Qual(sqlPkg, "DB")).Op("*").Id(name).Block(
		jen.Return(jen.Op("&").Id(name).Values(jen.Id("db").Op(":").Id("db"))),
	)
	f.Var().Id("_").Id(repositoryName(e)).Op("=").Parens(jen.Op("*").Id(name)).Parens(jen.Nil())

	f.Const().DefsFunc(func(g *jen.Group) {
		g.Id(queryConst(e.Name, "Schema")).Op("=").Lit(h.DDL())
		if t.needsFind() || t.helper.Enabled(feature.Search) {
			g.Id(queryConst(e.Name, "Select")).Op("=").Lit(q.Select)
		}
		if t.needsFind() {
			g.Id(queryConst(e.Name, "Find")).Op("=").Lit(q.Find)
		}
		if t.needsExists() {
			g.Id(queryConst(e.Name, "Exists")).Op("=").Lit(q.Exists)
		}
		if h.Enabled(feature.Create) {
			g.Id(queryConst(e.Name, "Insert")).Op("=").Lit(q.Insert)
		}
		if h.Enabled(feature.Update) {
			g.Id(queryConst(e.Name, "Update")).Op("=").Lit(q.Update)
		}
		if h.Enabled(feature.Delete) {
			g.Id(queryConst(e.Name, "Delete")).Op("=").Lit(q.Delete)
		}
		if h.Enabled(feature.Search) {
			g.Id(queryConst(e.Name, "Count")).Op("=").Lit(q.Count)
		}
	})

	recv := jen.Id("r").Op("*").Id(name)
	db := jen.Id("r").Dot("db")

	f.Comment("Migrate creates the table if it does not exist.")
	f.Func().Params(recv.Clone()).Id("Migrate").Params(ctxParam()).Error().Block(
		jen.List(jen.Id("_"), jen.Err()).Op(":=").Add(db.Clone()).Dot("ExecContext").Call(jen.Id("ctx"), jen.Id(queryConst(e.Name, "Schema"))),
		jen.Return(jen.Err()),
	)

	if t.needsExists() {
		f.Comment("Exists implements " + repositoryName(e) + ".")
		f.Func().Params(recv.Clone()).Id("Exists").Params(ctxParam(), jen.Id("id").Add(t.idType())).Params(jen.Bool(), jen.Error()).Block(
			jen.Var().Id("n").Int(),
			jen.If(
				jen.Err().Op(":=").Add(db.Clone()).Dot("QueryRowContext").Call(jen.Id("ctx"), jen.Id(queryConst(e.Name, "Exists")), jen.Id("id")).
					Dot("Scan").Call(jen.Op("&").Id("n")),
				jen.Err().Op("!=").Nil(),
			).Block(jen.Return(jen.False(), jen.Err())),
			jen.Return(jen.Id("n").Op(">").Lit(0), jen.Nil()),
		)
	}

	if t.needsFind() {
		f.Comment("FindByID implements " + repositoryName(e) + ".")
		f.Func().Params(recv.Clone()).Id("FindByID").Params(ctxParam(), jen.Id("id").Add(t.idType())).
			Params(jen.Op("*").Add(t.modelType()), jen.Bool(), jen.Error()).Block(
			jen.Var().Id("m").Add(t.modelType()),
			jen.Err().Op(":=").Add(db.Clone()).Dot("QueryRowContext").Call(jen.Id("ctx"), jen.Id(queryConst(e.Name, "Find")), jen.Id("id")).
				Dot("Scan").Call(jen.Id("m").Dot("ScanTargets").Call().Op("...")),
			jen.If(jen.Qual("errors", "Is").Call(jen.Err(), jen.Qual(sqlPkg, "ErrNoRows"))).Block(
				jen.Return(jen.Nil(), jen.False(), jen.Nil()),
			),
			ifErrReturn(jen.Nil(), jen.False(), jen.Err()),
			jen.Return(jen.Op("&").Id("m"), jen.True(), jen.Nil()),
		)
	}

	if h.Enabled(feature.Create) {
		f.Comment("Insert implements " + repositoryName(e) + ".")
		f.Func().Params(recv.Clone()).Id("Insert").Params(ctxParam(), jen.Id("m").Op("*").Add(t.modelType())).Error().Block(
			jen.List(jen.Id("_"), jen.Err()).Op(":=").Add(db.Clone()).Dot("ExecContext").Call(
				jen.Id("ctx"), jen.Id(queryConst(e.Name, "Insert")), jen.Id("m").Dot("Values").Call().Op("..."),
			),
			jen.Return(jen.Err()),
		)
	}

	if h.Enabled(feature.Update) {
		f.Comment("Update implements " + repositoryName(e) + ".")
		f.Func().Params(recv.Clone()).Id("Update").Params(ctxParam(), jen.Id("m").Op("*").Add(t.modelType())).Error().Block(
			jen.List(jen.Id("_"), jen.Err()).Op(":=").Add(db.Clone()).Dot("ExecContext").CallFunc(func(g *jen.Group) {
				g.Id("ctx")
				g.Id(queryConst(e.Name, "Update"))
				mutable := e.MutableFields()
				if len(mutable) == 0 {
					g.Id("m").Dot(e.ID.StructField())
				}
				for _, fd := range mutable {
					g.Id("m").Dot(fd.StructField())
				}
				g.Id("m").Dot(e.ID.StructField())
			}),
			jen.Return(jen.Err()),
		)
	}

	if h.Enabled(feature.Delete) {
		f.Comment("Delete implements " + repositoryName(e) + ".")
		f.Func().Params(recv.Clone()).Id("Delete").Params(ctxParam(), jen.Id("id").Add(t.idType())).Error().Block(
			jen.List(jen.Id("_"), jen.Err()).Op(":=").Add(db.Clone()).Dot("ExecContext").Call(jen.Id("ctx"), jen.Id(queryConst(e.Name, "Delete")), jen.Id("id")),
			jen.Return(jen.Err()),
		)
	}

	if h.Enabled(feature.Search) {
		f.Comment("Search implements " + repositoryName(e) + ".")
		f.Func().Params(recv.Clone()).Id("Search").Params(
			ctxParam(),
			jen.Id("where").String(),
			jen.Id("args").Index().Any(),
			jen.List(jen.Id("offset"), jen.Id("limit")).Int(),
		).Params(jen.Index().Op("*").Add(t.modelType()), jen.Int64(), jen.Error()).Block(
			jen.List(jen.Id("query"), jen.Id("count")).Op(":=").List(jen.Id(queryConst(e.Name, "Select")), jen.Id(queryConst(e.Name, "Count"))),
			jen.If(jen.Id("where").Op("!=").Lit("")).Block(
				jen.Id("query").Op("+=").Lit(" WHERE ").Op("+").Id("where"),
				jen.Id("count").Op("+=").Lit(" WHERE ").Op("+").Id("where"),
			),
			jen.Var().Id("total").Int64(),
			jen.If(
				jen.Err().Op(":=").Add(db.Clone()).Dot("QueryRowContext").Call(jen.Id("ctx"), jen.Id("count"), jen.Id("args").Op("...")).
					Dot("Scan").Call(jen.Op("&").Id("total")),
				jen.Err().Op("!=").Nil(),
			).Block(jen.Return(jen.Nil(), jen.Lit(0), jen.Err())),
			jen.Id("query").Op("+=").Qual("fmt", "Sprintf").Call(jen.Lit(q.OrderBy+" LIMIT %d OFFSET %d"), jen.Id("limit"), jen.Id("offset")),
			jen.List(jen.Id("rows"), jen.Err()).Op(":=").Add(db.Clone()).Dot("QueryContext").Call(jen.Id("ctx"), jen.Id("query"), jen.Id("args").Op("...")),
			ifErrReturn(jen.Nil(), jen.Lit(0), jen.Err()),
			jen.Defer().Id("rows").Dot("Close").Call(),
			jen.Var().Id("items").Index().Op("*").Add(t.modelType()),
			jen.For(jen.Id("rows").Dot("Next").Call()).Block(
				jen.Var().Id("m").Add(t.modelType()),
				jen.If(
					jen.Err().Op(":=").Id("rows").Dot("Scan").Call(jen.Id("m").Dot("ScanTargets").Call().Op("...")),
					jen.Err().Op("!=").Nil(),
				).Block(jen.Return(jen.Nil(), jen.Lit(0), jen.Err())),
				jen.Id("items").Op("=").Append(jen.Id("items"), jen.Op("&").Id("m")),
			),
			jen.Return(jen.Id("items"), jen.Id("total"), jen.Id("rows").Dot("Err").Call()),
		)
	}
	return f
}
