package manifest

import (
	"fmt"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
)

// DefaultGoVersion is the go directive of rendered manifests.
const DefaultGoVersion = "1.24"

// toolPackages maps tool modules to the package "go tool" runs.
var toolPackages = map[string]string{
	"github.com/swaggo/swag": "github.com/swaggo/swag/cmd/swag",
}

// RenderGoMod renders records as a go.mod file. Requirements keep the record
// order in a single block and carry the scope as a line comment. Tool records
// also get a tool directive.
func RenderGoMod(modulePath, goVersion string, records []Record) ([]byte, error) {
	if err := module.CheckPath(modulePath); err != nil {
		return nil, fmt.Errorf("crudgen: module path: %w", err)
	}
	if goVersion == "" {
		goVersion = DefaultGoVersion
	}
	f := &modfile.File{Syntax: &modfile.FileSyntax{}}
	if err := f.AddModuleStmt(modulePath); err != nil {
		return nil, err
	}
	if err := f.AddGoStmt(goVersion); err != nil {
		return nil, fmt.Errorf("crudgen: go version: %w", err)
	}
	var requires, tools []*modfile.Line
	for _, r := range records {
		if !semver.IsValid(r.Version) {
			return nil, fmt.Errorf("crudgen: invalid version %q for %s", r.Version, r.Path())
		}
		line := &modfile.Line{Token: []string{modfile.AutoQuote(r.Path()), r.Version}, InBlock: true}
		if r.Scope != "" {
			line.Suffix = []modfile.Comment{{Token: "// " + r.Scope, Suffix: true}}
		}
		requires = append(requires, line)
		if r.Scope == ScopeTool {
			pkg, ok := toolPackages[r.Path()]
			if !ok {
				pkg = r.Path()
			}
			tools = append(tools, &modfile.Line{Token: []string{modfile.AutoQuote(pkg)}, InBlock: true})
		}
	}
	if len(requires) > 0 {
		f.Syntax.Stmt = append(f.Syntax.Stmt, &modfile.LineBlock{Token: []string{"require"}, Line: requires})
	}
	if len(tools) > 0 {
		f.Syntax.Stmt = append(f.Syntax.Stmt, &modfile.LineBlock{Token: []string{"tool"}, Line: tools})
	}
	return modfile.Format(f.Syntax), nil
}
