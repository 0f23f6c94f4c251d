package gen

import (
	"slices"
)

// Artifact identifiers.
const (
	ArtifactModel              = "model"
	ArtifactDTO                = "dto"
	ArtifactMapper             = "mapper"
	ArtifactRepositoryContract = "repository-contract"
	ArtifactRepository         = "repository"
	ArtifactRepositoryTest     = "repository-test"
	ArtifactService            = "service"
	ArtifactServiceTest        = "service-test"
	ArtifactController         = "controller"
	ArtifactErrorHandler       = "error-handler"
	ArtifactNotFoundError      = "not-found-error"
	ArtifactAlreadyExistsError = "already-exists-error"
	ArtifactInternalError      = "internal-error"
	ArtifactSearchCriteria     = "search-criteria-type"
	ArtifactPredicateBuilder   = "predicate-builder"
	ArtifactMain               = "application-main"
	ArtifactConfig             = "application-config"
	ArtifactMigration          = "migration"
	ArtifactManifest           = "build-manifest"
)

// Package directories of the generated project.
const (
	DirModel      = "internal/model"
	DirDTO        = "internal/dto"
	DirMapper     = "internal/mapper"
	DirRepository = "internal/repository"
	DirService    = "internal/service"
	DirController = "internal/controller"
	DirAppErr     = "internal/apperr"
	DirSearch     = "internal/search"
	DirMain       = "cmd/server"
)

// ArtifactSet maps artifact identifiers to generated source text.
type ArtifactSet map[string]string

// IDs returns the artifact identifiers in sorted order.
func (s ArtifactSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Has reports if the set contains the artifact.
func (s ArtifactSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}
