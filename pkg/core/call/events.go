// Package call implements the web call session: the single-call state
// machine, the app message codec and the event stream exposed to hosts.
package call

// Event is the interface for all call session events.
type Event interface {
	// EventType returns the event type string for serialization.
	EventType() string
}

// CallStartEvent is emitted when the transport join completes.
type CallStartEvent struct{}

func (e CallStartEvent) EventType() string { return "call.start" }

// CallEndEvent is emitted when the transport session ends.
type CallEndEvent struct{}

func (e CallEndEvent) EventType() string { return "call.end" }

// TranscriptEvent carries a speech-to-text fragment from the backend.
// Its fields are a pass-through of the backend transcript schema.
type TranscriptEvent struct {
	Role           string `json:"role"`
	TranscriptType string `json:"transcriptType"`
	Transcript     string `json:"transcript"`
}

func (e TranscriptEvent) EventType() string { return "transcript" }

// Final reports whether this fragment is a committed transcript.
func (e TranscriptEvent) Final() bool { return e.TranscriptType == TranscriptTypeFinal }

// Transcript completeness markers used by the backend.
const (
	TranscriptTypePartial = "partial"
	TranscriptTypeFinal   = "final"
)

// FunctionCallEvent carries a tool invocation requested by the assistant.
// Parameters have no fixed schema.
type FunctionCallEvent struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
}

func (e FunctionCallEvent) EventType() string { return "function.call" }

// HangEvent is emitted when the assistant requests the call to be hung up.
type HangEvent struct{}

func (e HangEvent) EventType() string { return "hang" }

// ErrorEvent carries an asynchronous session failure.
type ErrorEvent struct {
	Err error `json:"-"`
}

func (e ErrorEvent) EventType() string { return "error" }
