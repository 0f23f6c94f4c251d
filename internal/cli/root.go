// Package cli implements the crudgen commands.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/syssam/crudgen/internal/version"
)

// RootCmd returns the crudgen command with every subcommand attached.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "crudgen",
		Short:   "Generate CRUD and search services from an entity schema",
		Version: version.String(),
		Long: `crudgen generates a layered Go service for one entity: model, transfer
object, mapper, SQL repository, service, gin controller, search predicates,
application entry point, configuration, migration and go.mod.

The project is read from crudgen.yaml when present, then from CRUDGEN_*
environment variables, then from flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(GenerateCmd())
	root.AddCommand(CatalogCmd())
	root.AddCommand(PreviewCmd())
	root.AddCommand(ServeCmd())
	root.AddCommand(VersionCmd())
	return root
}

// logger returns the command logger. It writes text records to stderr at
// debug level with --verbose and warnings only otherwise.
func logger(cmd *cobra.Command) *slog.Logger {
	return loggerAt(cmd, slog.LevelWarn)
}

// loggerAt is logger with level as the non-verbose level.
func loggerAt(cmd *cobra.Command, level slog.Level) *slog.Logger {
	if verbose(cmd) {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func verbose(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("verbose")
	return v
}

var (
	okColor    = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	errColor   = color.New(color.FgRed)
	titleColor = color.New(color.Bold)
)

// VersionCmd returns the version command.
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the crudgen version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
