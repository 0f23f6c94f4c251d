package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/dialect"
	"github.com/syssam/crudgen/feature"
	"github.com/syssam/crudgen/manifest"
	"github.com/syssam/crudgen/predicate"
)

// =============================================================================
// Interface Segregation: a target is split into small, focused generators
// =============================================================================

// StructureGenerator generates the artifacts emitted for every selection,
// including one without operations.
type StructureGenerator interface {
	// GenModel generates the persistence model (internal/model).
	GenModel() *jen.File
	// GenDTO generates the transfer object (internal/dto).
	GenDTO() *jen.File
	// GenMapper generates the model/transfer object mapping rules (internal/mapper).
	GenMapper() *jen.File
	// GenRepositoryContract generates the persistence-access interface.
	GenRepositoryContract() *jen.File
	// GenRepository generates the SQL implementation of the contract.
	GenRepository() *jen.File
	// GenNotFoundError generates the not-found error definition.
	GenNotFoundError() *jen.File
	// GenAlreadyExistsError generates the already-exists error definition.
	GenAlreadyExistsError() *jen.File
	// GenInternalError generates the generic internal error definition.
	GenInternalError() *jen.File
}

// OperationGenerator generates the layers that expose the enabled operations.
type OperationGenerator interface {
	// GenService generates the business-logic layer.
	GenService() *jen.File
	// GenController generates the request-handling layer.
	GenController() *jen.File
	// GenErrorHandler maps the error taxonomy to responses.
	GenErrorHandler() *jen.File
}

// SearchGenerator generates the search support. It is only invoked when the
// search operation is enabled.
type SearchGenerator interface {
	// GenSearchCriteria generates the criteria and page types.
	GenSearchCriteria() *jen.File
	// GenPredicateBuilder generates the criteria to SQL condition builder.
	GenPredicateBuilder() *jen.File
}

// MinimalTarget is the minimum interface a target must implement.
type MinimalTarget interface {
	// Name returns the target name (e.g., "gin").
	Name() string
	StructureGenerator
	OperationGenerator
	SearchGenerator
}

// ProjectGenerator generates the runnable project around the layers.
// Targets may implement it optionally.
type ProjectGenerator interface {
	// GenMain generates the application entry point.
	GenMain() *jen.File
	// GenConfig generates the application configuration file.
	GenConfig() ([]byte, error)
	// GenMigration generates the schema DDL.
	GenMigration() []byte
}

// TestGenerator generates tests of the generated project. Targets may
// implement it optionally; each method is gated by a dependency key.
type TestGenerator interface {
	// GenServiceTest is generated when feature.Testing is selected.
	GenServiceTest() *jen.File
	// GenRepositoryTest is generated when feature.Mocking is selected.
	GenRepositoryTest() *jen.File
}

// GeneratorHelper provides helper methods for target implementations.
// Assembler implements this interface, allowing target packages to use
// helper methods without importing the full assembler.
type GeneratorHelper interface {
	// NewFile creates a new Jennifer file with the standard header comment.
	NewFile(pkg string) *jen.File

	// Entity returns the resolved entity.
	Entity() *Entity

	// Selection returns the feature selection.
	Selection() *feature.Selection

	// Enabled reports if an operation is enabled.
	Enabled(op feature.Operation) bool

	// HasDependency reports if an optional dependency is selected.
	HasDependency(k feature.DependencyKey) bool

	// Dialect returns the SQL dialect of the persistence backend.
	Dialect() dialect.Dialect

	// Records returns the resolved build-manifest records.
	Records() []manifest.Record

	// Config returns the assembly configuration.
	Config() *Config

	// GoType returns the Jennifer code for a field's Go type.
	GoType(f *Field) jen.Code

	// ZeroValue returns the Jennifer code for a field's zero value.
	ZeroValue(f *Field) jen.Code

	// SampleValue returns a distinct literal value of the field for test data.
	SampleValue(f *Field, n int) jen.Code

	// DDL returns the CREATE TABLE statement of the entity.
	DDL() string

	// SearchExample returns the example criteria of the search documentation
	// and their rendered SQL condition. ok is false when search is disabled.
	SearchExample() (criteria []predicate.Criterion, cond string, ok bool)

	// ModelPkg returns the import path for the model package.
	ModelPkg() string

	// DTOPkg returns the import path for the dto package.
	DTOPkg() string

	// MapperPkg returns the import path for the mapper package.
	MapperPkg() string

	// RepositoryPkg returns the import path for the repository package.
	RepositoryPkg() string

	// ServicePkg returns the import path for the service package.
	ServicePkg() string

	// ControllerPkg returns the import path for the controller package.
	ControllerPkg() string

	// AppErrPkg returns the import path for the error package.
	AppErrPkg() string

	// SearchPkg returns the import path for the search package.
	SearchPkg() string
}
