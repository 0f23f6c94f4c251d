package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/crudgen/compiler/load"
	"github.com/syssam/crudgen/feature"
)

// projectFlags adds the flags that override the project file.
func projectFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("config", "c", load.DefaultFile, "Project file")
	f.StringP("name", "n", "", "Project name")
	f.String("module", "", "Module path of the generated project")
	f.String("entity", "", "Entity name (default: title-cased project name)")
	f.String("table", "", "Table name (default: plural entity name)")
	f.String("fields", "", `Attributes as name:type, "!" marks the identity, e.g. "id:text!,name:text"`)
	f.String("ops", "", `Operations: "all", "none" or a list of create,read,update,delete,search`)
	f.String("backend", "", "Persistence backend: embedded or external")
	f.String("deps", "", `Optional dependencies: "all", "none" or a list of web,config,validation,docs,testing,mocking`)
}

// loadProject reads the project file, applies the environment and then the
// flags that were set. A missing file is only an error when --config was set.
func loadProject(cmd *cobra.Command) (*load.Project, error) {
	f := cmd.Flags()
	path, _ := f.GetString("config")
	p, err := load.File(path, !f.Changed("config"))
	if err != nil {
		return nil, err
	}
	if err := p.Env(os.LookupEnv); err != nil {
		return nil, err
	}
	str := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	str("name", &p.Name)
	str("module", &p.Module)
	str("entity", &p.Entity)
	str("table", &p.Table)
	if f.Changed("fields") {
		v, _ := f.GetString("fields")
		if p.Attributes, err = load.ParseFields(v); err != nil {
			return nil, err
		}
	}
	if f.Changed("ops") {
		v, _ := f.GetString("ops")
		if p.Operations, err = load.ParseOperations(v); err != nil {
			return nil, err
		}
	}
	if f.Changed("backend") {
		v, _ := f.GetString("backend")
		if p.Backend, err = feature.ParseBackend(v); err != nil {
			return nil, err
		}
	}
	if f.Changed("deps") {
		v, _ := f.GetString("deps")
		if p.Dependencies, err = load.ParseDependencies(v); err != nil {
			return nil, err
		}
	}
	if f.Changed("out") {
		p.Output, _ = f.GetString("out")
	}
	return p, nil
}
