package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Module", "not a path", "invalid module path")

		assert.Contains(t, err.Error(), "crudgen: config error")
		assert.Contains(t, err.Error(), "Module")
		assert.Contains(t, err.Error(), "not a path")
		assert.Contains(t, err.Error(), "invalid module path")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Target", nil, "cannot be nil")

		assert.Contains(t, err.Error(), "Target")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrMissingConfig", func(t *testing.T) {
		err := NewConfigError("Target", nil, "missing")
		assert.True(t, errors.Is(err, ErrMissingConfig))
		assert.True(t, IsConfigError(fmt.Errorf("wrapped: %w", err)))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestGenerationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("unexpected token")
		err := NewGenerationError(ArtifactController, "format", cause)

		assert.Contains(t, err.Error(), "crudgen: generation error")
		assert.Contains(t, err.Error(), "in artifact controller")
		assert.Contains(t, err.Error(), "format")
		assert.Contains(t, err.Error(), "unexpected token")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root cause")
		err := NewGenerationError("", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
		assert.True(t, errors.Is(err, ErrGenerationFailed))
		assert.True(t, IsGenerationError(err))
		assert.False(t, IsGenerationError(errors.New("other")))
	})
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("User", "user_id", "UserID", "struct field collides with userId")

	assert.Contains(t, err.Error(), "crudgen: validation error")
	assert.Contains(t, err.Error(), "entity User")
	assert.Contains(t, err.Error(), "field user_id")
	assert.Contains(t, err.Error(), "(value: UserID)")
	assert.True(t, errors.Is(err, ErrValidationFailed))
	assert.True(t, IsValidationError(err))
	assert.False(t, IsValidationError(errors.New("other")))
}
