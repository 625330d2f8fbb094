package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindConflict, KindOf(Conflict("duplicate")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))

	// Kind survives wrapping.
	wrapped := fmt.Errorf("context: %w", NotFound("missing"))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "cart is empty", MessageOf(Validation("cart is empty")))
	assert.Equal(t, "internal server error", MessageOf(errors.New("pq: connection refused")))
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("smtp timeout")
	err := Internal("unable to send email", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "unable to send email", MessageOf(err))
	assert.Contains(t, err.Error(), "smtp timeout")
}
