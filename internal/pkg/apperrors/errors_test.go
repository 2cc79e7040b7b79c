package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorCollectsFields(t *testing.T) {
	verr := NewValidationError()
	assert.False(t, verr.HasErrors())
	assert.NoError(t, verr.ErrOrNil())

	verr.Add("email", "must be a valid email address").
		Add("password", "must be at least 8 characters")

	require.True(t, verr.HasErrors())
	err := verr.ErrOrNil()
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrValidationFailed)

	var unwrapped *ValidationError
	require.ErrorAs(t, err, &unwrapped)
	assert.Len(t, unwrapped.Fields, 2)
	assert.Equal(t, "must be a valid email address", unwrapped.Fields["email"])
}

func TestCustomErrorWrapsSentinel(t *testing.T) {
	err := NewConflictError("student code already taken")

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "student code already taken", err.Error())

	wrapped := fmt.Errorf("creating student: %w", err)
	assert.ErrorIs(t, wrapped, ErrConflict)
}

func TestSentinelsAreDistinct(t *testing.T) {
	// The two student conflict kinds must stay distinguishable so the API
	// can report which field collided.
	assert.False(t, errors.Is(ErrStudentIDAlreadyExists, ErrStudentEmailAlreadyInUse))
	assert.False(t, errors.Is(ErrSelfDeletion, ErrPermissionDenied))
}
