// Package load reads generation projects from crudgen.yaml files, the
// environment and command line field specs.
package load

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/syssam/crudgen/compiler"
	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/export"
	"github.com/syssam/crudgen/feature"
	"github.com/syssam/crudgen/schema"
)

// ErrInvalidProject is wrapped by errors of projects that cannot be built.
var ErrInvalidProject = errors.New("load: invalid project")

// DefaultFile is the project file looked up in the working directory.
const DefaultFile = "crudgen.yaml"

// DefaultName is the project name used when none is configured.
const DefaultName = "resultado"

// Project describes one generated service.
type Project struct {
	// Name is the project name. It names the output directory and the
	// default module path.
	Name string `yaml:"name" json:"name"`
	// Module is the module path of the generated project.
	Module string `yaml:"module,omitempty" json:"module,omitempty"`
	// Entity is the entity name. It defaults to the title-cased project name.
	Entity string `yaml:"entity,omitempty" json:"entity,omitempty"`
	// Table is the table name. It defaults to the plural entity name.
	Table        string                  `yaml:"table,omitempty" json:"table,omitempty"`
	Attributes   []schema.Attribute      `yaml:"attributes" json:"attributes"`
	Operations   []feature.Operation     `yaml:"operations" json:"operations"`
	Backend      feature.Backend         `yaml:"backend" json:"backend"`
	Dependencies []feature.DependencyKey `yaml:"dependencies" json:"dependencies"`
	// Output is the directory the project is written to.
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
}

// Default returns the project used when nothing is configured: a
// "resultado" entity keyed by a text id, every operation, the embedded
// backend and every optional dependency.
func Default() *Project {
	return &Project{
		Name:         DefaultName,
		Attributes:   []schema.Attribute{schema.Key("id", schema.Text)},
		Operations:   feature.AllOperations(),
		Backend:      feature.Embedded,
		Dependencies: feature.DefaultDependencies(),
	}
}

// Parse decodes a YAML (or JSON) project over the defaults.
func Parse(b []byte) (*Project, error) {
	p := Default()
	if err := yaml.Unmarshal(b, p); err != nil {
		return nil, fmt.Errorf("load: decode project: %w", err)
	}
	return p, nil
}

// File reads the project file at path. A missing file yields the defaults
// when missingOK is set.
func File(path string, missingOK bool) (*Project, error) {
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && missingOK:
		return Default(), nil
	case err != nil:
		return nil, fmt.Errorf("load: %w", err)
	}
	p, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Env overrides the project from CRUDGEN_PROJECT, CRUDGEN_MODULE,
// CRUDGEN_BACKEND and CRUDGEN_OUTPUT. lookup is usually os.LookupEnv.
func (p *Project) Env(lookup func(string) (string, bool)) error {
	get := func(k string) (string, bool) {
		v, ok := lookup(k)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	if v, ok := get("CRUDGEN_PROJECT"); ok {
		p.Name = v
	}
	if v, ok := get("CRUDGEN_MODULE"); ok {
		p.Module = v
	}
	if v, ok := get("CRUDGEN_BACKEND"); ok {
		b, err := feature.ParseBackend(v)
		if err != nil {
			return fmt.Errorf("load: CRUDGEN_BACKEND: %w", err)
		}
		p.Backend = b
	}
	if v, ok := get("CRUDGEN_OUTPUT"); ok {
		p.Output = v
	}
	return nil
}

// EntityName returns the configured entity name or the title-cased project name.
func (p *Project) EntityName() string {
	if p.Entity != "" {
		return p.Entity
	}
	return cases.Title(language.Und).String(p.Name)
}

// ModulePath returns the configured module path or "example.com/<name>".
func (p *Project) ModulePath() string {
	if p.Module != "" {
		return p.Module
	}
	return "example.com/" + strings.ToLower(p.Name)
}

// OutputDir returns the configured output directory or the project name.
func (p *Project) OutputDir() string {
	if p.Output != "" {
		return p.Output
	}
	return p.Name
}

// Build validates the project and returns its schema and feature selection.
func (p *Project) Build() (*schema.Schema, *feature.Selection, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, nil, fmt.Errorf("%w: name is required", ErrInvalidProject)
	}
	s, err := schema.New(p.EntityName(), p.Table, p.Attributes...)
	if err != nil {
		return nil, nil, err
	}
	sel, err := feature.New(
		feature.WithOperations(p.Operations...),
		feature.WithBackend(p.Backend),
		feature.WithDependencies(p.Dependencies...),
	)
	if err != nil {
		return nil, nil, err
	}
	return s, sel, nil
}

// Options returns the assembly options of the project.
func (p *Project) Options() []gen.Option {
	return []gen.Option{gen.WithModule(p.ModulePath())}
}

// Assemble builds the project and generates its artifact set and the
// layout the set is exported with. opts are applied after Options.
func (p *Project) Assemble(ctx context.Context, opts ...gen.Option) (gen.ArtifactSet, export.Layout, error) {
	s, sel, err := p.Build()
	if err != nil {
		return nil, nil, err
	}
	e, err := gen.NewEntity(s)
	if err != nil {
		return nil, nil, err
	}
	set, err := compiler.Assemble(ctx, s, sel, append(p.Options(), opts...)...)
	if err != nil {
		return nil, nil, err
	}
	return set, export.DefaultLayout(e.FileName()), nil
}

// ParseFields parses a comma separated attribute list. Each attribute is
// written name:type and a trailing ! marks the identity, e.g.
// "id:text!,name:text,score:integer".
func ParseFields(list string) ([]schema.Attribute, error) {
	var attrs []schema.Attribute
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, typ, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("load: invalid field %q: expected name:type", part)
		}
		typ, identity := strings.CutSuffix(strings.TrimSpace(typ), "!")
		t, err := schema.ParseType(typ)
		if err != nil {
			return nil, fmt.Errorf("load: invalid field %q: %w", part, err)
		}
		attrs = append(attrs, schema.Attribute{Name: strings.TrimSpace(name), Type: t, Identity: identity})
	}
	if len(attrs) == 0 {
		return nil, fmt.Errorf("load: no fields in %q", list)
	}
	return attrs, nil
}

// ParseOperations parses a comma separated operation list. "all" selects
// every operation and "none" (or an empty list) selects none.
func ParseOperations(list string) ([]feature.Operation, error) {
	switch strings.ToLower(strings.TrimSpace(list)) {
	case "all":
		return feature.AllOperations(), nil
	case "", "none":
		return []feature.Operation{}, nil
	}
	var ops []feature.Operation
	for _, part := range strings.Split(list, ",") {
		op, err := feature.ParseOperation(part)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// ParseDependencies parses a comma separated dependency key list. "all"
// selects every key and "none" (or an empty list) selects none.
func ParseDependencies(list string) ([]feature.DependencyKey, error) {
	switch strings.ToLower(strings.TrimSpace(list)) {
	case "all":
		return feature.DefaultDependencies(), nil
	case "", "none":
		return []feature.DependencyKey{}, nil
	}
	var keys []feature.DependencyKey
	for _, part := range strings.Split(list, ",") {
		k, err := feature.ParseDependencyKey(part)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}
