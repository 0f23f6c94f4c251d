// Package compiler is the entry point of artifact assembly. It wires the
// assembler of package gen to the gin target.
package compiler

import (
	"context"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/compiler/gen/gin"
	"github.com/syssam/crudgen/feature"
	"github.com/syssam/crudgen/schema"
)

// Assemble generates the artifact set of the schema and selection. A failed
// assembly returns no set.
//
//	set, err := compiler.Assemble(ctx, s, feature.Default(), gen.WithModule("example.com/shop"))
func Assemble(ctx context.Context, s *schema.Schema, sel *feature.Selection, opts ...gen.Option) (gen.ArtifactSet, error) {
	a, err := gen.NewAssembler(s, sel, opts...)
	if err != nil {
		return nil, err
	}
	return a.WithTarget(gin.NewTarget(a)).Assemble(ctx)
}
