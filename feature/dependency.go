package feature

import (
	"fmt"
	"strings"
)

// DependencyKey names an optional capability of the generated project.
type DependencyKey string

// Dependency keys.
const (
	Web        DependencyKey = "web"
	Config     DependencyKey = "config"
	Validation DependencyKey = "validation"
	Docs       DependencyKey = "docs"
	Testing    DependencyKey = "testing"
	Mocking    DependencyKey = "mocking"
)

// Dependency describes an optional dependency key.
type Dependency struct {
	Key         DependencyKey
	Description string
}

// Dependencies lists the known keys in catalog order.
var Dependencies = []Dependency{
	{Key: Web, Description: "HTTP routing and request binding"},
	{Key: Config, Description: "YAML application configuration"},
	{Key: Validation, Description: "Struct validation of transfer objects"},
	{Key: Docs, Description: "OpenAPI documentation endpoint"},
	{Key: Testing, Description: "Assertion helpers and generated service tests"},
	{Key: Mocking, Description: "SQL driver mocks for repository tests"},
}

// ParseDependencyKey validates a dependency key.
func ParseDependencyKey(s string) (DependencyKey, error) {
	k := DependencyKey(strings.ToLower(strings.TrimSpace(s)))
	for _, d := range Dependencies {
		if d.Key == k {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown dependency %q", ErrInvalidSelection, s)
}

// DefaultDependencies returns every known key.
func DefaultDependencies() []DependencyKey {
	keys := make([]DependencyKey, len(Dependencies))
	for i, d := range Dependencies {
		keys[i] = d.Key
	}
	return keys
}
