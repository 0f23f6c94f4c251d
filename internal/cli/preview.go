package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syssam/crudgen/internal/preview"
	"github.com/syssam/crudgen/predicate"
)

// PreviewCmd returns the preview command.
func PreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Evaluate search criteria against sample rows",
		Long: `Load sample rows into an in-memory SQLite table created from the entity
schema, run the SQL condition of the criteria and compare the result with the
in-memory evaluation of the same criteria.

Rows and criteria are YAML or JSON lists. --criteria accepts a file or an
inline list.

Examples:
  crudgen preview --rows rows.yaml --criteria '[{"key":"name","operation":"like","value":"an"}]'
  crudgen preview --fields "id:integer!,score:integer" --rows rows.json --criteria criteria.yaml`,
		Args: cobra.NoArgs,
		RunE: runPreview,
	}
	projectFlags(cmd)
	cmd.Flags().String("rows", "", "Sample rows file")
	cmd.Flags().String("criteria", "[]", "Criteria file or inline list")
	cmd.Flags().Bool("json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("rows")
	return cmd
}

func runPreview(cmd *cobra.Command, _ []string) error {
	p, err := loadProject(cmd)
	if err != nil {
		return err
	}
	s, _, err := p.Build()
	if err != nil {
		return err
	}
	f := cmd.Flags()
	rowsPath, _ := f.GetString("rows")
	rf, err := os.Open(rowsPath)
	if err != nil {
		return err
	}
	defer rf.Close()
	rows, err := preview.DecodeRows(rf)
	if err != nil {
		return err
	}
	criteriaArg, _ := f.GetString("criteria")
	criteria, err := readCriteria(criteriaArg)
	if err != nil {
		return err
	}

	res, err := preview.Run(cmd.Context(), s, rows, criteria, preview.WithLogger(logger(cmd)))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if asJSON, _ := f.GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			*preview.Result
			Agree    bool     `json:"agree"`
			Mismatch []string `json:"mismatch"`
		}{res, res.Agree(), res.Mismatch()})
	}
	cond := res.Condition
	if cond == "" {
		cond = "(none)"
	}
	titleColor.Fprintln(out, "Condition")
	fmt.Fprintf(out, "  %s %v\n", cond, res.Args)
	titleColor.Fprintf(out, "SQL (%d rows)\n", len(res.SQL))
	printRows(out, res.SQL)
	titleColor.Fprintf(out, "Match (%d rows)\n", len(res.Match))
	printRows(out, res.Match)
	if res.Agree() {
		okColor.Fprintln(out, "results agree")
	} else {
		warnColor.Fprintf(out, "results differ: %s\n", strings.Join(res.Mismatch(), ", "))
	}
	return nil
}

// readCriteria reads a criteria file, or parses arg itself when it is not
// the name of a file.
func readCriteria(arg string) ([]predicate.Criterion, error) {
	if f, err := os.Open(arg); err == nil {
		defer f.Close()
		return preview.DecodeCriteria(f)
	}
	return preview.DecodeCriteria(strings.NewReader(arg))
}

func printRows(out io.Writer, rows []predicate.Map) {
	for _, row := range rows {
		b, err := json.Marshal(row)
		if err != nil {
			fmt.Fprintf(out, "  %v\n", map[string]any(row))
			continue
		}
		fmt.Fprintf(out, "  %s\n", b)
	}
}
