// Package export writes assembled artifact sets to disk or to a zip archive.
package export

import (
	"archive/zip"
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/crudgen/compiler/gen"
)

// Layout maps artifact identifiers to slash-separated project paths.
type Layout map[string]string

// DefaultLayout returns the project layout of an entity whose per-entity
// files are named name, e.g. "resultado".
func DefaultLayout(name string) Layout {
	return Layout{
		gen.ArtifactModel:              path.Join(gen.DirModel, name+".go"),
		gen.ArtifactDTO:                path.Join(gen.DirDTO, name+".go"),
		gen.ArtifactMapper:             path.Join(gen.DirMapper, name+".go"),
		gen.ArtifactRepositoryContract: path.Join(gen.DirRepository, name+".go"),
		gen.ArtifactRepository:         path.Join(gen.DirRepository, name+"_sql.go"),
		gen.ArtifactRepositoryTest:     path.Join(gen.DirRepository, name+"_sql_test.go"),
		gen.ArtifactService:            path.Join(gen.DirService, name+".go"),
		gen.ArtifactServiceTest:        path.Join(gen.DirService, name+"_test.go"),
		gen.ArtifactController:         path.Join(gen.DirController, name+".go"),
		gen.ArtifactErrorHandler:       path.Join(gen.DirController, "errors.go"),
		gen.ArtifactNotFoundError:      path.Join(gen.DirAppErr, "not_found.go"),
		gen.ArtifactAlreadyExistsError: path.Join(gen.DirAppErr, "already_exists.go"),
		gen.ArtifactInternalError:      path.Join(gen.DirAppErr, "internal.go"),
		gen.ArtifactSearchCriteria:     path.Join(gen.DirSearch, "criteria.go"),
		gen.ArtifactPredicateBuilder:   path.Join(gen.DirSearch, "predicate.go"),
		gen.ArtifactMain:               path.Join(gen.DirMain, "main.go"),
		gen.ArtifactConfig:             "config.yaml",
		gen.ArtifactMigration:          "migrations/schema.sql",
		gen.ArtifactManifest:           "go.mod",
	}
}

// Path returns the path of an artifact. Artifacts missing from the layout
// are placed under "artifacts/".
func (l Layout) Path(id string) string {
	if p, ok := l[id]; ok {
		return p
	}
	return path.Join("artifacts", id)
}

// File is one artifact placed at its project path.
type File struct {
	ID   string
	Path string
	Text string
}

// Files returns the files of set sorted by path.
func (l Layout) Files(set gen.ArtifactSet) []File {
	files := make([]File, 0, len(set))
	for id, text := range set {
		files = append(files, File{ID: id, Path: l.Path(id), Text: text})
	}
	slices.SortFunc(files, func(a, b File) int {
		return cmp.Compare(a.Path, b.Path)
	})
	return files
}

// Metrics holds statistics of a write.
type Metrics struct {
	Files int
	Bytes int64
}

// Writer writes artifact sets under a directory.
type Writer struct {
	dir     string
	layout  Layout
	workers int

	mu      sync.Mutex
	metrics Metrics
}

// NewWriter returns a writer of layout rooted at dir.
func NewWriter(dir string, layout Layout) *Writer {
	return &Writer{
		dir:     dir,
		layout:  layout,
		workers: runtime.GOMAXPROCS(0),
	}
}

// WithWorkers sets the number of parallel writers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns the statistics of the last write.
func (w *Writer) Metrics() Metrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// Write writes every artifact of set in parallel.
func (w *Writer) Write(ctx context.Context, set gen.ArtifactSet) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	w.mu.Lock()
	w.metrics = Metrics{}
	w.mu.Unlock()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, f := range w.layout.Files(set) {
		f := f
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeFile(f)
			}
		})
	}
	return eg.Wait()
}

func (w *Writer) writeFile(f File) error {
	full := filepath.Join(w.dir, filepath.FromSlash(f.Path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", f.Path, err)
	}
	if err := os.WriteFile(full, []byte(f.Text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	w.mu.Lock()
	w.metrics.Files++
	w.metrics.Bytes += int64(len(f.Text))
	w.mu.Unlock()
	return nil
}

// Archive writes set to w as a zip archive. Entries are placed under root,
// in path order.
func Archive(w io.Writer, root string, set gen.ArtifactSet, layout Layout) error {
	zw := zip.NewWriter(w)
	for _, f := range layout.Files(set) {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:   path.Join(root, f.Path),
			Method: zip.Deflate,
		})
		if err != nil {
			return fmt.Errorf("archive %s: %w", f.Path, err)
		}
		if _, err := io.WriteString(fw, f.Text); err != nil {
			return fmt.Errorf("archive %s: %w", f.Path, err)
		}
	}
	return zw.Close()
}
