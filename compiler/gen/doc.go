// Package gen assembles the source artifacts of a CRUD and search service from
// an entity schema and a feature selection.
//
// # Architecture
//
// The assembly pipeline follows this flow:
//
//	schema.Schema + feature.Selection
//	        ↓
//	   Entity (resolved names, fields and identity)
//	        ↓
//	   Target (per-artifact Jennifer generators)
//	        ↓
//	   ArtifactSet (artifact identifier → formatted source)
//
// # Interface Hierarchy
//
// The target interfaces are split by concern:
//
//	MinimalTarget
//	├── Name() string
//	├── StructureGenerator (model, dto, mapper, repository, errors)
//	├── OperationGenerator (service, controller, error handler)
//	└── SearchGenerator (criteria, predicate builder)
//
//	ProjectGenerator (optional: main, config, migration)
//	TestGenerator (optional: service and repository tests)
//
// Targets receive a GeneratorHelper, implemented by Assembler, for access to
// the entity, the selection and the backend dialect.
//
// # Usage
//
//	a, err := gen.NewAssembler(s, sel, gen.WithModule("example.com/resultado"))
//	if err != nil {
//		return err
//	}
//	set, err := a.WithTarget(gin.NewTarget(a)).Assemble(ctx)
//
// # Error Handling
//
// Assembly errors are typed: ConfigError for invalid options, ValidationError
// for schemas that cannot be mapped to Go identifiers and GenerationError for
// failures while rendering an artifact. A failed assembly never returns a
// partial set.
package gen
