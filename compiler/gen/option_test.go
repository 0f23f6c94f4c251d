package gen

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithModule(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"domain", "example.com/resultado", false},
		{"github", "github.com/org/app", false},
		{"empty", "", true},
		{"leading slash", "/abs/path", true},
		{"space", "example.com/my app", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithModule(tt.path)(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.path, c.Module)
		})
	}
}

func TestWithGoVersion(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithGoVersion("1.23")(c))
	assert.Equal(t, "1.23", c.GoVersion)

	err := WithGoVersion("go1.23")(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, WithHeader("Custom header")(c))
		assert.Equal(t, "Custom header", c.Header)
	})
	t.Run("empty header is allowed", func(t *testing.T) {
		c := &Config{Header: "existing"}
		require.NoError(t, WithHeader("")(c))
		assert.Empty(t, c.Header)
	})
}

func TestWithDatabaseAndWorkers(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithDatabase("shop")(c))
	assert.Equal(t, "shop", c.Database)
	assert.Error(t, WithDatabase("")(c))

	require.NoError(t, WithWorkers(2)(c))
	assert.Equal(t, 2, c.Workers)
	assert.True(t, IsConfigError(WithWorkers(0)(c)))
}

func TestWithLogger(t *testing.T) {
	var b bytes.Buffer
	l := slog.New(slog.NewTextHandler(&b, nil))
	c := &Config{}
	require.NoError(t, WithLogger(l)(c))
	assert.Same(t, l, c.Logger)
	assert.Error(t, WithLogger(nil)(c))
}

func TestApply(t *testing.T) {
	t.Run("stops at first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(WithWorkers(0), WithDatabase("x"))
		require.Error(t, err)
		assert.Empty(t, c.Database)
	})
	t.Run("collects all errors", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(WithWorkers(0), WithDatabase(""), WithHeader("h"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Workers")
		assert.Contains(t, err.Error(), "Database")
		assert.Equal(t, "h", c.Header)
	})
}
