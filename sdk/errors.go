package vapi

import "github.com/unbtbl-forks/vapi-go/pkg/core"

// SDK-level error type that wraps core errors
type Error = core.Error

// Error types
const (
	ErrInvalidInput  = core.ErrInvalidInput
	ErrNetwork       = core.ErrNetwork
	ErrDecoding      = core.ErrDecoding
	ErrAlreadyInCall = core.ErrAlreadyInCall
	ErrTransport     = core.ErrTransport
)

// IsType reports whether err is (or wraps) an *Error of the given type.
func IsType(err error, t core.ErrorType) bool {
	return core.IsType(err, t)
}
