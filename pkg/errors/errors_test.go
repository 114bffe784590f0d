package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf_FindsWrappedAppError(t *testing.T) {
	err := fmt.Errorf("handler: %w", NewValidationErrorf("radius must be in (0, %d] km", 1000))

	assert.Equal(t, ErrorTypeValidation, TypeOf(err))
	assert.True(t, IsType(err, ErrorTypeValidation))
	assert.False(t, IsType(err, ErrorTypeInternal))
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
}

func TestAppError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalError("failed to search materials", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "INTERNAL: failed to search materials: connection refused", err.Error())
}

func TestAppError_HTTPStatus(t *testing.T) {
	assert.Equal(t, 400, NewValidationError("lat must be a number").HTTPStatus())
	assert.Equal(t, 404, NewNotFoundError("user not found").HTTPStatus())
	assert.Equal(t, 500, NewInternalError("failed to search materials", errors.New("boom")).HTTPStatus())
}
