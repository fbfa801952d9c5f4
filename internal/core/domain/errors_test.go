package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	assert.ErrorIs(t, Invalid("pin", "too short"), ErrInvalidInput)
	assert.Equal(t, "validation failed: pin: too short", Invalid("pin", "too short").Error())
	assert.ErrorIs(t, &DuplicateError{Field: "phoneNumber"}, ErrDuplicateEntry)
	assert.ErrorIs(t, &AuthorizationError{Reason: "bad pin"}, ErrUnauthorized)

	multi := &ValidationError{Fields: map[string]string{"b": "x", "a": "y"}}
	assert.Equal(t, "validation failed: a: y; b: x", multi.Error())
}

func TestPersist(t *testing.T) {
	assert.NoError(t, Persist("op", nil))

	cause := errors.New("connection reset")
	err := Persist("update balance", cause)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "update balance: connection reset", err.Error())

	wrapped := fmt.Errorf("approve: %w", err)
	assert.Same(t, err, Persist("outer", err))
	var pe *PersistenceError
	assert.True(t, errors.As(Persist("outer", wrapped), &pe))
	assert.Equal(t, "update balance", pe.Op)
}
