package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/tj/assert"
)

func TestWithMessagefKeepsSentinel(t *testing.T) {
	err := ErrTaskNotFound.WithMessagef("Task: %s not found.", "t1")

	assert.Equal(t, "Task: t1 not found.", err.Message)
	assert.Equal(t, "Task not found", ErrTaskNotFound.Message)
	assert.True(t, stderrors.Is(err, ErrTaskNotFound))
	assert.False(t, stderrors.Is(err, ErrInternal))
}

func TestIsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("registering callback: %w", ErrTaskNotFound)

	assert.True(t, stderrors.Is(wrapped, ErrTaskNotFound))
}

func TestAsRpcError(t *testing.T) {
	assert.Nil(t, AsRpcError(nil))

	rpcErr := AsRpcError(fmt.Errorf("wrapped: %w", ErrInvalidParams))
	assert.Equal(t, ErrInvalidParams.Code, rpcErr.Code)

	plain := AsRpcError(stderrors.New("boom"))
	assert.Equal(t, ErrInternal.Code, plain.Code)
	assert.Equal(t, "boom", plain.Message)
}

func TestNewError(t *testing.T) {
	err := NewError(ErrMissingTaskStore{}, "while building task manager")

	assert.Contains(t, err.Error(), "missing task store")
	assert.Contains(t, err.Error(), "while building task manager")
}

func TestNewErrorUnwraps(t *testing.T) {
	err := NewError(ErrMissingAgent{}, ErrMissingTaskStore{})

	var missing ErrMissingAgent
	assert.True(t, stderrors.As(err, &missing))
}
