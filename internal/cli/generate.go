package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/export"
)

// GenerateCmd returns the generate command.
func GenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the service project",
		Long: `Generate the service project of one entity.

Examples:
  crudgen generate                                   # crudgen.yaml or the defaults
  crudgen generate --fields "id:integer!,name:text" --ops create,read
  crudgen generate --backend external --deps web,config,testing
  crudgen generate --zip resultado.zip               # write an archive
  crudgen generate --dry-run                         # list the files only
  crudgen generate --watch                           # regenerate when crudgen.yaml changes`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}
	projectFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "Output directory (default: project name)")
	cmd.Flags().String("zip", "", "Write a zip archive to this path instead of a directory")
	cmd.Flags().Bool("dry-run", false, "List the files that would be written")
	cmd.Flags().Bool("watch", false, "Regenerate whenever the project file changes")
	cmd.Flags().Int("workers", 0, "Parallel file writers (default: GOMAXPROCS)")
	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logger(cmd)

	if err := generate(ctx, cmd, log); err != nil {
		return err
	}
	if watch, _ := cmd.Flags().GetBool("watch"); !watch {
		return nil
	}
	path, _ := cmd.Flags().GetString("config")
	w, err := newWatcher(path)
	if err != nil {
		return err
	}
	defer w.Close()
	fmt.Fprintf(cmd.OutOrStdout(), "watching %s\n", path)
	return watchLoop(ctx, w, filepath.Clean(path), 200*time.Millisecond, func() error {
		return generate(ctx, cmd, log)
	}, func(err error) {
		errColor.Fprintf(cmd.ErrOrStderr(), "generate: %v\n", err)
	})
}

// generate runs one generation with the current project file and flags.
func generate(ctx context.Context, cmd *cobra.Command, log *slog.Logger) error {
	p, err := loadProject(cmd)
	if err != nil {
		return err
	}
	start := time.Now()
	set, layout, err := p.Assemble(ctx, gen.WithLogger(log))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	f := cmd.Flags()

	if dry, _ := f.GetBool("dry-run"); dry {
		titleColor.Fprintf(out, "%s (%s)\n", p.OutputDir(), p.ModulePath())
		for _, file := range layout.Files(set) {
			fmt.Fprintf(out, "  %-45s %6d bytes\n", file.Path, len(file.Text))
		}
		return nil
	}
	if zipPath, _ := f.GetString("zip"); zipPath != "" {
		if err := writeArchive(zipPath, p.OutputDir(), set, layout); err != nil {
			return err
		}
		okColor.Fprintf(out, "wrote %s", zipPath)
		fmt.Fprintf(out, " (%d files, %s)\n", len(set), time.Since(start).Round(time.Millisecond))
		return nil
	}
	workers, _ := f.GetInt("workers")
	w := export.NewWriter(p.OutputDir(), layout)
	if workers > 0 {
		w = w.WithWorkers(workers)
	}
	if err := w.Write(ctx, set); err != nil {
		return err
	}
	m := w.Metrics()
	okColor.Fprintf(out, "generated %s", p.OutputDir())
	fmt.Fprintf(out, " (%d files, %d bytes, %s)\n", m.Files, m.Bytes, time.Since(start).Round(time.Millisecond))
	return nil
}

func writeArchive(path, root string, set gen.ArtifactSet, layout export.Layout) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return export.Archive(f, filepath.ToSlash(root), set, layout)
}

// newWatcher watches the directory of path. Editors often replace files
// instead of writing them, so the file itself is not watched.
func newWatcher(path string) (*fsnotify.Watcher, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch: %w", err)
	}
	return w, nil
}

// watchLoop calls run after writes to path settle for debounce. Failed runs
// are reported to onErr and watching continues. It returns when ctx is done.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, debounce time.Duration, run func() error, onErr func(error)) error {
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			onErr(err)
		case <-timer.C:
			if err := run(); err != nil && !errors.Is(err, context.Canceled) {
				onErr(err)
			}
		}
	}
}
