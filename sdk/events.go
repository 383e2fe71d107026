package vapi

import "github.com/unbtbl-forks/vapi-go/pkg/core/call"

// Re-exported session types so hosts only import this package.
type (
	Event        = call.Event
	Subscription = call.Subscription
	Target       = call.Target
	WebCall      = call.WebCall

	CallStartEvent    = call.CallStartEvent
	CallEndEvent      = call.CallEndEvent
	TranscriptEvent   = call.TranscriptEvent
	FunctionCallEvent = call.FunctionCallEvent
	HangEvent         = call.HangEvent
	ErrorEvent        = call.ErrorEvent
)

// Call states.
const (
	StateIdle    = call.StateIdle
	StateJoining = call.StateJoining
	StateActive  = call.StateActive
)
