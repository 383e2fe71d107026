// Package core holds the shared error taxonomy for the SDK.
package core

import (
	"errors"
	"fmt"
)

// Error is the canonical SDK error.
type Error struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Param   string    `json:"param,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Param != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Param)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap returns the underlying cause for error wrapping.
func (e *Error) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes errors.
type ErrorType string

const (
	// ErrInvalidInput means the request could not be constructed as given.
	ErrInvalidInput ErrorType = "invalid_input_error"
	// ErrNetwork means the HTTP request to the backend failed or returned
	// a non-success status.
	ErrNetwork ErrorType = "network_error"
	// ErrDecoding means a response or message body did not match the
	// expected shape.
	ErrDecoding ErrorType = "decoding_error"
	// ErrAlreadyInCall means a call was started while another one was
	// joining or active.
	ErrAlreadyInCall ErrorType = "already_in_call_error"
	// ErrTransport means the realtime transport reported a join, leave or
	// in-call failure.
	ErrTransport ErrorType = "transport_error"
)

// NewInvalidInputError creates an invalid input error.
func NewInvalidInputError(message string) *Error {
	return &Error{
		Type:    ErrInvalidInput,
		Message: message,
	}
}

// NewNetworkError creates a network error wrapping the underlying cause.
func NewNetworkError(message string, cause error) *Error {
	return &Error{
		Type:    ErrNetwork,
		Message: message,
		Cause:   cause,
	}
}

// NewDecodingError creates a decoding error naming the offending field.
func NewDecodingError(message, param string) *Error {
	return &Error{
		Type:    ErrDecoding,
		Message: message,
		Param:   param,
	}
}

// NewDecodingErrorCause creates a decoding error wrapping a parse failure.
func NewDecodingErrorCause(message string, cause error) *Error {
	return &Error{
		Type:    ErrDecoding,
		Message: message,
		Cause:   cause,
	}
}

// NewAlreadyInCallError creates an already-in-call error.
func NewAlreadyInCallError() *Error {
	return &Error{
		Type:    ErrAlreadyInCall,
		Message: "a call is already joining or active",
	}
}

// NewTransportError creates a transport error wrapping the underlying cause.
func NewTransportError(message string, cause error) *Error {
	return &Error{
		Type:    ErrTransport,
		Message: message,
		Cause:   cause,
	}
}

// IsType reports whether err is (or wraps) an *Error of the given type.
func IsType(err error, t ErrorType) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == t
}
