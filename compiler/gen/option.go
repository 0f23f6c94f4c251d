package gen

import (
	"errors"
	"log/slog"

	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
)

// Option configures code generation.
type Option func(*Config) error

// WithModule sets the module path of the generated project.
// For example: "github.com/org/resultado".
func WithModule(path string) Option {
	return func(c *Config) error {
		if err := module.CheckPath(path); err != nil {
			return NewConfigError("Module", path, err.Error())
		}
		c.Module = path
		return nil
	}
}

// WithGoVersion sets the go directive of the generated go.mod, e.g. "1.24".
func WithGoVersion(v string) Option {
	return func(c *Config) error {
		if !semver.IsValid("v" + v) {
			return NewConfigError("GoVersion", v, "invalid go version")
		}
		c.GoVersion = v
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated Go file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithDatabase sets the database name of the default data source.
func WithDatabase(name string) Option {
	return func(c *Config) error {
		if name == "" {
			return NewConfigError("Database", nil, "database name cannot be empty")
		}
		c.Database = name
		return nil
	}
}

// WithWorkers sets the number of concurrent renderers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
