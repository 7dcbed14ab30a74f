package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfDefaultsToStorage(t *testing.T) {
	assert.Equal(t, KindStorage, KindOf(errors.New("driver exploded")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("contact")))
}

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	err := fmt.Errorf("handler: %w", Conflict("duplicate"))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, IsKind(err, KindConflict))
	assert.False(t, IsKind(err, KindNotFound))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("timeout")
	err := Storage("listing contacts", cause)
	assert.Contains(t, err.Error(), "listing contacts")
	assert.Contains(t, err.Error(), "timeout")
	assert.ErrorIs(t, err, cause)
}
