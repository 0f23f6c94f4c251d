package gen

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/crudgen/dialect"
	"github.com/syssam/crudgen/feature"
	"github.com/syssam/crudgen/manifest"
	"github.com/syssam/crudgen/predicate"
	"github.com/syssam/crudgen/schema"
)

// Assembler produces the artifact set of one entity and feature selection.
// Artifacts are rendered concurrently; the result only depends on the inputs.
// An Assembler must not be shared by concurrent Assemble calls.
type Assembler struct {
	config    *Config
	entity    *Entity
	selection *feature.Selection
	dialect   dialect.Dialect

	// Target generator for the artifact payloads.
	// Requires at least MinimalTarget; optional generators are detected at runtime.
	target  MinimalTarget
	project ProjectGenerator
	tests   TestGenerator

	// Computed once per Assemble call.
	records  []manifest.Record
	example  []predicate.Criterion
	exampleQ string
}

// NewAssembler resolves the schema and returns an assembler.
// You must call WithTarget() to set a target before calling Assemble().
//
// Example:
//
//	import "github.com/syssam/crudgen/compiler/gen/gin"
//
//	a, err := gen.NewAssembler(s, sel, gen.WithModule("example.com/shop"))
//	if err != nil {
//	    return err
//	}
//	a.WithTarget(gin.NewTarget(a))
//	set, err := a.Assemble(ctx)
func NewAssembler(s *schema.Schema, sel *feature.Selection, opts ...Option) (*Assembler, error) {
	if s == nil {
		return nil, NewConfigError("Schema", nil, "schema cannot be nil")
	}
	if sel == nil {
		return nil, NewConfigError("Selection", nil, "selection cannot be nil")
	}
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	e, err := NewEntity(s)
	if err != nil {
		return nil, err
	}
	return &Assembler{
		config:    cfg,
		entity:    e,
		selection: sel,
		dialect:   dialect.ForBackend(sel.Backend()),
	}, nil
}

// WithTarget sets the target generator.
// Additional capabilities are detected via ProjectGenerator and TestGenerator.
func (a *Assembler) WithTarget(t MinimalTarget) *Assembler {
	a.target = t
	a.project, _ = t.(ProjectGenerator)
	a.tests, _ = t.(TestGenerator)
	return a
}

// task produces the text of one artifact.
type task struct {
	id  string
	gen func() (string, error)
}

// Assemble generates the complete artifact set. On failure no partial set is
// returned.
func (a *Assembler) Assemble(ctx context.Context) (ArtifactSet, error) {
	if a.target == nil {
		return nil, NewConfigError("Target", nil, "no target set: call WithTarget() before Assemble()")
	}
	start := time.Now()
	log := a.config.Logger.With("entity", a.entity.Name, "target", a.target.Name())

	a.records = manifest.Resolve(a.selection)
	a.example, a.exampleQ = nil, ""
	if a.selection.Enabled(feature.Search) {
		a.example = a.exampleCriteria()
		a.exampleQ, _ = predicate.Build(a.example).SQLColumns(a.dialect, a.column)
	}

	tasks := []task{
		a.goFile(ArtifactModel, a.target.GenModel),
		a.goFile(ArtifactDTO, a.target.GenDTO),
		a.goFile(ArtifactMapper, a.target.GenMapper),
		a.goFile(ArtifactRepositoryContract, a.target.GenRepositoryContract),
		a.goFile(ArtifactRepository, a.target.GenRepository),
		a.goFile(ArtifactNotFoundError, a.target.GenNotFoundError),
		a.goFile(ArtifactAlreadyExistsError, a.target.GenAlreadyExistsError),
		a.goFile(ArtifactInternalError, a.target.GenInternalError),
		a.goFile(ArtifactService, a.target.GenService),
		a.goFile(ArtifactController, a.target.GenController),
		a.goFile(ArtifactErrorHandler, a.target.GenErrorHandler),
		{id: ArtifactManifest, gen: a.genManifest},
	}
	if a.selection.Enabled(feature.Search) {
		tasks = append(tasks,
			a.goFile(ArtifactSearchCriteria, a.target.GenSearchCriteria),
			a.goFile(ArtifactPredicateBuilder, a.target.GenPredicateBuilder),
		)
	}
	if a.project != nil {
		tasks = append(tasks,
			a.goFile(ArtifactMain, a.project.GenMain),
			task{id: ArtifactConfig, gen: func() (string, error) {
				b, err := a.project.GenConfig()
				return string(b), err
			}},
			task{id: ArtifactMigration, gen: func() (string, error) {
				return string(a.project.GenMigration()), nil
			}},
		)
	}
	if a.tests != nil {
		if a.selection.HasDependency(feature.Testing) {
			tasks = append(tasks, a.goFile(ArtifactServiceTest, a.tests.GenServiceTest))
		}
		if a.selection.HasDependency(feature.Mocking) {
			tasks = append(tasks, a.goFile(ArtifactRepositoryTest, a.tests.GenRepositoryTest))
		}
	}

	var (
		mu  sync.Mutex
		set = make(ArtifactSet, len(tasks))
	)
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(a.config.Workers)
	for _, t := range tasks {
		t := t
		errg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			text, err := t.gen()
			if err != nil {
				if IsGenerationError(err) {
					return err
				}
				return NewGenerationError(t.id, "", err)
			}
			mu.Lock()
			set[t.id] = text
			mu.Unlock()
			log.Debug("artifact generated", "artifact", t.id, "bytes", len(text))
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		log.Debug("assembly failed", "error", err)
		return nil, err
	}
	log.Debug("assembly complete", "artifacts", len(set), "duration", time.Since(start))
	return set, nil
}

// goFile wraps a Jennifer generator into a formatting task.
func (a *Assembler) goFile(id string, gen func() *jen.File) task {
	return task{id: id, gen: func() (string, error) {
		f := gen()
		if f == nil {
			return "", NewGenerationError(id, "target returned no file", nil)
		}
		return formatFile(id, f)
	}}
}

func (a *Assembler) genManifest() (string, error) {
	b, err := manifest.RenderGoMod(a.config.Module, a.config.GoVersion, manifest.Requirements(a.records))
	if err != nil {
		return "", NewGenerationError(ArtifactManifest, "render go.mod", err)
	}
	return string(b), nil
}

// exampleCriteria returns criteria exercising a like and an ordering term.
func (a *Assembler) exampleCriteria() []predicate.Criterion {
	var criteria []predicate.Criterion
	if f, ok := a.entity.TextField(); ok {
		criteria = append(criteria, predicate.Criterion{Field: f.Name, Op: predicate.OpLike, Value: "an"})
	}
	for _, f := range a.entity.Fields {
		if f.Type.Numeric() {
			criteria = append(criteria, predicate.Criterion{Field: f.Name, Op: predicate.OpGTE, Value: 9})
			break
		}
	}
	if len(criteria) == 0 {
		criteria = append(criteria, predicate.Criterion{Field: a.entity.ID.Name, Op: predicate.OpEQ, Value: "42"})
	}
	return criteria
}

func (a *Assembler) column(name string) string {
	if f, ok := a.entity.Field(name); ok {
		return f.Column()
	}
	return name
}

// =============================================================================
// GeneratorHelper interface implementation
// These exported methods allow target packages to access helper functionality.
// =============================================================================

// NewFile creates a new Jennifer file with the standard header comment.
func (a *Assembler) NewFile(pkg string) *jen.File {
	f := jen.NewFile(pkg)
	if a.config.Header != "" {
		f.HeaderComment(a.config.Header)
	}
	return f
}

// Entity returns the resolved entity.
func (a *Assembler) Entity() *Entity { return a.entity }

// Selection returns the feature selection.
func (a *Assembler) Selection() *feature.Selection { return a.selection }

// Enabled reports if an operation is enabled.
func (a *Assembler) Enabled(op feature.Operation) bool { return a.selection.Enabled(op) }

// HasDependency reports if an optional dependency is selected.
func (a *Assembler) HasDependency(k feature.DependencyKey) bool {
	return a.selection.HasDependency(k)
}

// Dialect returns the SQL dialect of the persistence backend.
func (a *Assembler) Dialect() dialect.Dialect { return a.dialect }

// Records returns the resolved build-manifest records.
func (a *Assembler) Records() []manifest.Record {
	if a.records == nil {
		a.records = manifest.Resolve(a.selection)
	}
	return a.records
}

// Config returns the assembly configuration.
func (a *Assembler) Config() *Config { return a.config }

// GoType returns the Jennifer code for a field's Go type.
func (a *Assembler) GoType(f *Field) jen.Code { return goType(f.Type) }

// ZeroValue returns the Jennifer code for a field's zero value.
func (a *Assembler) ZeroValue(f *Field) jen.Code { return zeroValue(f.Type) }

// SampleValue returns a distinct literal value of the field for test data.
func (a *Assembler) SampleValue(f *Field, n int) jen.Code { return sampleValue(f, n) }

// DDL returns the CREATE TABLE statement of the entity.
func (a *Assembler) DDL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", a.dialect.Quote(a.entity.Table))
	for _, f := range a.entity.Fields {
		fmt.Fprintf(&b, "\t%s %s", a.dialect.Quote(f.Column()), a.dialect.Column(f.Type))
		if f.Identity {
			b.WriteString(" PRIMARY KEY")
		} else {
			b.WriteString(" NOT NULL")
		}
		b.WriteString(",\n")
	}
	s := strings.TrimSuffix(b.String(), ",\n")
	return s + "\n);\n"
}

// SearchExample returns the example criteria of the search documentation.
func (a *Assembler) SearchExample() ([]predicate.Criterion, string, bool) {
	if !a.selection.Enabled(feature.Search) || a.example == nil {
		return nil, "", false
	}
	return a.example, a.exampleQ, true
}

// ModelPkg returns the import path for the model package.
func (a *Assembler) ModelPkg() string { return a.config.Pkg(DirModel) }

// DTOPkg returns the import path for the dto package.
func (a *Assembler) DTOPkg() string { return a.config.Pkg(DirDTO) }

// MapperPkg returns the import path for the mapper package.
func (a *Assembler) MapperPkg() string { return a.config.Pkg(DirMapper) }

// RepositoryPkg returns the import path for the repository package.
func (a *Assembler) RepositoryPkg() string { return a.config.Pkg(DirRepository) }

// ServicePkg returns the import path for the service package.
func (a *Assembler) ServicePkg() string { return a.config.Pkg(DirService) }

// ControllerPkg returns the import path for the controller package.
func (a *Assembler) ControllerPkg() string { return a.config.Pkg(DirController) }

// AppErrPkg returns the import path for the error package.
func (a *Assembler) AppErrPkg() string { return a.config.Pkg(DirAppErr) }

// SearchPkg returns the import path for the search package.
func (a *Assembler) SearchPkg() string { return a.config.Pkg(DirSearch) }

var _ GeneratorHelper = (*Assembler)(nil)
