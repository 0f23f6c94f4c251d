package predicate

import (
	"strings"

	"github.com/syssam/crudgen/dialect"
)

// SQL renders p as a SQL condition for the dialect, with field names used as
// column names. The empty predicate renders as an empty condition.
func (p Predicate) SQL(d dialect.Dialect) (string, []any) {
	return p.SQLColumns(d, nil)
}

// SQLColumns is like SQL but maps field names to columns with column. A nil
// column uses the field name.
func (p Predicate) SQLColumns(d dialect.Dialect, column func(string) string) (string, []any) {
	if p.Empty() {
		return "", nil
	}
	var (
		b    strings.Builder
		args = make([]any, 0, len(p.terms))
	)
	for i, t := range p.terms {
		if i > 0 {
			b.WriteString(" AND ")
		}
		col := t.Field
		if column != nil {
			col = column(col)
		}
		col = d.Quote(col)
		args = append(args, t.Value)
		ph := d.Placeholder(len(args))
		switch {
		case t.Op == OpLike:
			args[len(args)-1] = "%" + t.Value.(string) + "%"
			b.WriteString(col + " " + d.Like() + " " + ph)
		case t.Op.Ordering():
			b.WriteString("CAST(" + col + " AS " + d.TextType() + ") " + t.Op.SQL() + " " + ph)
		default:
			b.WriteString(col + " " + t.Op.SQL() + " " + ph)
		}
	}
	return b.String(), args
}
