package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Formatting(t *testing.T) {
	t.Parallel()

	err := NewDecodingError("transcript message missing field", "role")
	assert.Equal(t, "decoding_error: transcript message missing field (role)", err.Error())

	cause := errors.New("connection reset")
	err = NewNetworkError("create web call", cause)
	assert.Equal(t, "network_error: create web call: connection reset", err.Error())
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: timeout")
	err := NewTransportError("join call", cause)
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("start: %w", err)
	var typed *Error
	require.True(t, errors.As(wrapped, &typed))
	assert.Equal(t, ErrTransport, typed.Type)
}

func TestIsType(t *testing.T) {
	t.Parallel()

	err := NewAlreadyInCallError()
	assert.True(t, IsType(err, ErrAlreadyInCall))
	assert.False(t, IsType(err, ErrNetwork))
	assert.False(t, IsType(errors.New("plain"), ErrAlreadyInCall))

	wrapped := fmt.Errorf("outer: %w", NewInvalidInputError("bad target"))
	assert.True(t, IsType(wrapped, ErrInvalidInput))
}
