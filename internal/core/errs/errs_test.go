package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ymate/internal/core/errs"
)

func TestKindOf_KindedError(t *testing.T) {
	err := errs.Conflict("already applied")
	assert.Equal(t, errs.KindConflict, errs.KindOf(err))
	assert.True(t, errs.Is(err, errs.KindConflict))
	assert.False(t, errs.Is(err, errs.KindNotFound))
}

func TestKindOf_WrappedKindedError(t *testing.T) {
	err := fmt.Errorf("apply: %w", errs.NoAuth("own post"))
	assert.Equal(t, errs.KindNoAuth, errs.KindOf(err))
}

func TestKindOf_PlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, errs.KindInternal, errs.KindOf(errors.New("boom")))
	assert.False(t, errs.Is(nil, errs.KindInternal))
}

func TestInternalize(t *testing.T) {
	assert.NoError(t, errs.Internalize(nil))

	kinded := errs.NotFound("post not found")
	assert.Same(t, kinded, errs.Internalize(kinded))

	cause := errors.New("connection reset")
	err := errs.Internalize(cause)
	require.Error(t, err)
	assert.Equal(t, errs.KindInternal, errs.KindOf(err))
	assert.ErrorIs(t, err, cause)
}

func TestError_MessageContainsKindAndCause(t *testing.T) {
	err := errs.Wrap(errs.KindInternal, "save post", errors.New("deadlock"))
	assert.Contains(t, err.Error(), "INTERNAL_ERROR")
	assert.Contains(t, err.Error(), "deadlock")
}
