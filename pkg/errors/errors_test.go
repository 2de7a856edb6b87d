package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/slotline/booking-api/pkg/errors"
)

func TestAppError_Error(t *testing.T) {
	t.Run("without wrapped error", func(t *testing.T) {
		err := apperrors.NewConflictError("slot already booked")
		assert.Equal(t, "CONFLICT: slot already booked", err.Error())
	})

	t.Run("with wrapped error", func(t *testing.T) {
		cause := fmt.Errorf("pq: duplicate key value")
		err := apperrors.NewInternalError("failed to create appointment", cause)
		assert.Contains(t, err.Error(), "INTERNAL")
		assert.Contains(t, err.Error(), "pq: duplicate key value")
		assert.Equal(t, cause, err.Unwrap())
	})
}

func TestIsType(t *testing.T) {
	conflict := apperrors.NewConflictError("slot already booked")

	assert.True(t, apperrors.IsType(conflict, apperrors.ErrorTypeConflict))
	assert.False(t, apperrors.IsType(conflict, apperrors.ErrorTypeValidation))

	wrapped := fmt.Errorf("booking failed: %w", conflict)
	assert.True(t, apperrors.IsType(wrapped, apperrors.ErrorTypeConflict))

	assert.False(t, apperrors.IsType(fmt.Errorf("plain"), apperrors.ErrorTypeConflict))
	assert.False(t, apperrors.IsType(nil, apperrors.ErrorTypeConflict))
}
