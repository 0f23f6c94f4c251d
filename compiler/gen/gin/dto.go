package gin

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/feature"
)

// GenDTO generates the transfer object exchanged by the request handlers.
func (t *Target) GenDTO() *jen.File {
	h := t.helper
	e := h.Entity()
	f := h.NewFile("dto")

	f.Commentf("%s is the transfer object of %s.", e.Name, e.Name)
	f.Type().Id(e.Name).StructFunc(func(g *jen.Group) {
		for _, fd := range e.Fields {
			g.Id(fd.StructField()).Add(h.GoType(fd)).Tag(t.dtoTags(fd))
		}
	})
	return f
}

func (t *Target) dtoTags(fd *gen.Field) map[string]string {
	tags := map[string]string{"json": fd.JSONKey()}
	if t.helper.HasDependency(feature.Validation) && fd.IsText() && !fd.Identity {
		tags["binding"] = "max=255"
	}
	return tags
}
