package gen

import (
	"io"
	"log/slog"
	"runtime"

	"github.com/syssam/crudgen/manifest"
)

// DefaultModule is the module path of generated projects when none is set.
const DefaultModule = "example.com/app"

// DefaultHeader is the comment placed at the top of generated Go files.
const DefaultHeader = "Code generated by crudgen. DO NOT EDIT."

// Config holds the assembly configuration.
type Config struct {
	// Module is the module path of the generated project.
	Module string
	// GoVersion is the go directive of the generated go.mod.
	GoVersion string
	// Header is the comment at the top of every generated Go file.
	Header string
	// Database is the database name used by the default data source.
	Database string
	// Workers limits concurrent artifact rendering.
	Workers int
	// Logger receives debug output. It defaults to a discarding logger.
	Logger *slog.Logger
}

// NewConfig returns a configuration with defaults applied, modified by opts.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Module:    DefaultModule,
		GoVersion: manifest.DefaultGoVersion,
		Header:    DefaultHeader,
		Database:  "mydb",
		Workers:   runtime.GOMAXPROCS(0),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// Pkg returns the import path of a package directory of the generated project.
func (c *Config) Pkg(dir string) string {
	return c.Module + "/" + dir
}
