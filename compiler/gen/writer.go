package gen

import (
	"bytes"
	"fmt"
	"time"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"

	"github.com/syssam/crudgen/schema"
)

// formatOptions never touch the filesystem: imports are tracked by Jennifer,
// so only formatting is needed.
var formatOptions = &imports.Options{
	FormatOnly: true,
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
}

// formatFile renders a Jennifer file and formats it.
func formatFile(id string, f *jen.File) (string, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return "", NewGenerationError(id, "render", err)
	}
	out, err := imports.Process(id+".go", buf.Bytes(), formatOptions)
	if err != nil {
		return "", NewGenerationError(id, "format", err)
	}
	return string(out), nil
}

func goType(t schema.Type) jen.Code {
	switch t {
	case schema.Integer:
		return jen.Int64()
	case schema.Decimal:
		return jen.Float64()
	case schema.Boolean:
		return jen.Bool()
	case schema.Date:
		return jen.Qual("time", "Time")
	default:
		return jen.String()
	}
}

func zeroValue(t schema.Type) jen.Code {
	switch t {
	case schema.Integer, schema.Decimal:
		return jen.Lit(0)
	case schema.Boolean:
		return jen.False()
	case schema.Date:
		return jen.Qual("time", "Time").Values()
	default:
		return jen.Lit("")
	}
}

// sampleValue returns the n-th sample literal of a field. Different n give
// different values, except for booleans which alternate.
func sampleValue(f *Field, n int) jen.Code {
	switch f.Type {
	case schema.Integer:
		return jen.Lit(int64(n + 1))
	case schema.Decimal:
		return jen.Lit(float64(n) + 1.5)
	case schema.Boolean:
		return jen.Lit(n%2 == 0)
	case schema.Date:
		d := time.Date(2024, time.January, 1+n, 0, 0, 0, 0, time.UTC)
		return jen.Qual("time", "Date").Call(
			jen.Lit(d.Year()), jen.Qual("time", d.Month().String()), jen.Lit(d.Day()),
			jen.Lit(0), jen.Lit(0), jen.Lit(0), jen.Lit(0), jen.Qual("time", "UTC"),
		)
	default:
		return jen.Lit(fmt.Sprintf("%s-%d", f.Name, n+1))
	}
}
