// Package manifest resolves a feature selection into the dependency records of
// the generated build manifest and renders them as a go.mod file.
package manifest

import (
	"strings"

	"github.com/syssam/crudgen/feature"
)

// Scope tags of a record.
const (
	// ScopeRuntime marks a driver that is only loaded at run time.
	ScopeRuntime = "runtime"
	// ScopeTest marks a dependency imported by tests only.
	ScopeTest = "test"
	// ScopeTool marks a code generator run through "go tool".
	ScopeTool = "tool"
)

// Record is a single dependency of the build manifest.
type Record struct {
	Group    string `json:"group" yaml:"group"`
	Artifact string `json:"artifact" yaml:"artifact"`
	Version  string `json:"version" yaml:"version"`
	Scope    string `json:"scope,omitempty" yaml:"scope,omitempty"`
}

// Coordinate is the identity of a record. Two records with the same
// coordinate are duplicates regardless of their scope.
type Coordinate struct {
	Group, Artifact, Version string
}

// Coordinate returns the coordinate triple of the record.
func (r Record) Coordinate() Coordinate {
	return Coordinate{Group: r.Group, Artifact: r.Artifact, Version: r.Version}
}

// Path returns the module path of the record.
func (r Record) Path() string {
	return r.Group + "/" + r.Artifact
}

// String formats the record as "path@version [scope]".
func (r Record) String() string {
	s := r.Path() + "@" + r.Version
	if r.Scope != "" {
		s += " (" + r.Scope + ")"
	}
	return s
}

// rec splits a module path into a record.
func rec(path, version, scope string) Record {
	i := strings.LastIndexByte(path, '/')
	return Record{Group: path[:i], Artifact: path[i+1:], Version: version, Scope: scope}
}

// Entry is a catalog record tagged with its dependency key.
type Entry struct {
	Key    feature.DependencyKey
	Record Record
}

// catalog is read-only after initialization. Insertion order defines the
// order of the resolved records.
var catalog = []Entry{
	{Key: feature.Web, Record: rec("github.com/gin-gonic/gin", "v1.10.1", "")},
	{Key: feature.Config, Record: rec("gopkg.in/yaml.v3", "v3.0.1", "")},
	{Key: feature.Validation, Record: rec("github.com/go-playground/validator/v10", "v10.20.0", "")},
	{Key: feature.Docs, Record: rec("github.com/swaggo/gin-swagger", "v1.6.0", "")},
	{Key: feature.Docs, Record: rec("github.com/swaggo/files", "v1.0.1", "")},
	{Key: feature.Docs, Record: rec("github.com/swaggo/swag", "v1.16.4", ScopeTool)},
	{Key: feature.Testing, Record: rec("github.com/stretchr/testify", "v1.11.1", ScopeTest)},
	{Key: feature.Mocking, Record: rec("github.com/DATA-DOG/go-sqlmock", "v1.5.2", ScopeTest)},
	{Key: feature.Mocking, Record: rec("github.com/stretchr/testify", "v1.11.1", ScopeTest)},
}

// structural records are imported by generated code whatever the selection.
var structural = []Record{
	rec("github.com/gin-gonic/gin", "v1.10.1", ""),
}

// Backend driver records.
var (
	embeddedDriver = rec("modernc.org/sqlite", "v1.37.1", ScopeRuntime)
	externalDriver = rec("github.com/go-sql-driver/mysql", "v1.9.3", "")
)

// Catalog returns a copy of the optional dependency catalog.
func Catalog() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog)
	return out
}

// Driver returns the driver record of a backend.
func Driver(b feature.Backend) Record {
	if b == feature.External {
		return externalDriver
	}
	return embeddedDriver
}

// Resolve returns the build-manifest records of a selection: the catalog
// records whose key is selected, in catalog order, followed by the backend
// driver. A coordinate appears at most once; the first occurrence wins.
func Resolve(sel *feature.Selection) []Record {
	var (
		out  []Record
		seen = make(map[Coordinate]struct{})
	)
	add := func(r Record) {
		if _, ok := seen[r.Coordinate()]; ok {
			return
		}
		seen[r.Coordinate()] = struct{}{}
		out = append(out, r)
	}
	for _, e := range catalog {
		if sel.HasDependency(e.Key) {
			add(e.Record)
		}
	}
	add(Driver(sel.Backend()))
	return out
}

// Structural returns the records the generated code imports whatever the
// selection.
func Structural() []Record {
	return append([]Record(nil), structural...)
}

// Requirements returns the requirements of the generated go.mod: the
// structural records whose module is not among records, followed by records.
func Requirements(records []Record) []Record {
	paths := make(map[string]struct{}, len(records))
	for _, r := range records {
		paths[r.Path()] = struct{}{}
	}
	var out []Record
	for _, r := range structural {
		if _, ok := paths[r.Path()]; !ok {
			out = append(out, r)
		}
	}
	return append(out, records...)
}
