package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/syssam/crudgen/internal/server"
)

// ServeCmd returns the serve command.
func ServeCmd() *cobra.Command {
	var (
		addr string
		ttl  time.Duration
		size int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation API over HTTP",
		Long: `Serve the generation API.

Routes:
  GET    /api/catalog             types, operations, backends and dependencies
  POST   /api/projects            project JSON to zip archive
  POST   /api/projects/artifacts  project JSON to artifact list
  POST   /api/predicates/sql      criteria to SQL condition
  POST   /api/predicates/preview  criteria evaluated against sample rows
  DELETE /api/cache               drop cached responses`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if !verbose(cmd) {
				gin.SetMode(gin.ReleaseMode)
			}
			log := loggerAt(cmd, slog.LevelInfo)
			s := server.New(server.WithLogger(log), server.WithCacheTTL(ttl), server.WithCacheSize(size))
			okColor.Fprintf(cmd.OutOrStdout(), "serving on %s\n", addr)
			return s.Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().DurationVar(&ttl, "cache-ttl", 10*time.Minute, "How long generated responses are cached (0: until cleared)")
	cmd.Flags().IntVar(&size, "cache-size", server.DefaultCacheSize, "Maximum number of cached responses")
	return cmd
}
