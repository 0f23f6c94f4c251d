package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/crudgen/feature"
	"github.com/syssam/crudgen/manifest"
	"github.com/syssam/crudgen/predicate"
	"github.com/syssam/crudgen/schema"
)

// CatalogCmd returns the catalog command.
func CatalogCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List attribute types, operations, backends and optional dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(catalogView())
			}
			names := func(vs []fmt.Stringer) string {
				s := make([]string, len(vs))
				for i, v := range vs {
					s[i] = v.String()
				}
				return strings.Join(s, ", ")
			}
			var types, ops, preds []fmt.Stringer
			for _, t := range schema.Types() {
				types = append(types, t)
			}
			for _, op := range feature.AllOperations() {
				ops = append(ops, op)
			}
			for _, op := range predicate.Ops() {
				preds = append(preds, op)
			}
			titleColor.Fprintln(out, "Attribute types")
			fmt.Fprintf(out, "  %s\n", names(types))
			titleColor.Fprintln(out, "Operations")
			fmt.Fprintf(out, "  %s\n", names(ops))
			titleColor.Fprintln(out, "Search operators")
			fmt.Fprintf(out, "  %s\n", names(preds))
			titleColor.Fprintln(out, "Backends")
			for _, b := range []feature.Backend{feature.Embedded, feature.External} {
				fmt.Fprintf(out, "  %-10s %s\n", b, manifest.Driver(b))
			}
			titleColor.Fprintln(out, "Dependencies")
			for _, d := range catalogView().Dependencies {
				fmt.Fprintf(out, "  %-10s %s\n", okColor.Sprint(d.Key), d.Description)
				for _, r := range d.Records {
					fmt.Fprintf(out, "  %-10s   %s\n", "", r)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalog as JSON")
	return cmd
}

type dependencyView struct {
	Key         feature.DependencyKey `json:"key"`
	Description string                `json:"description"`
	Records     []manifest.Record     `json:"records"`
}

type catalog struct {
	Types        []schema.Type       `json:"types"`
	Operations   []feature.Operation `json:"operations"`
	Operators    []predicate.Op      `json:"operators"`
	Dependencies []dependencyView    `json:"dependencies"`
}

func catalogView() catalog {
	c := catalog{
		Types:      schema.Types(),
		Operations: feature.AllOperations(),
		Operators:  predicate.Ops(),
	}
	entries := manifest.Catalog()
	for _, d := range feature.Dependencies {
		v := dependencyView{Key: d.Key, Description: d.Description}
		for _, e := range entries {
			if e.Key == d.Key {
				v.Records = append(v.Records, e.Record)
			}
		}
		c.Dependencies = append(c.Dependencies, v)
	}
	return c
}
