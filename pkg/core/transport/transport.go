// Package transport defines the capability interface the SDK expects from a
// realtime media client. The session logic only ever talks to these
// interfaces; concrete adapters (wsrtc, vendor clients) are injected.
package transport

import "context"

// CallState is a session lifecycle state reported by the transport.
type CallState string

const (
	// CallStateJoined means the local participant is in the call.
	CallStateJoined CallState = "joined"
	// CallStateLeft means the local participant has left the call.
	CallStateLeft CallState = "left"
)

// MicStatePlayable is the microphone track state that marks a participant
// as ready to be heard.
const MicStatePlayable = "playable"

// TargetAll addresses an app message to every participant in the call.
const TargetAll = "*"

// MediaSettings selects which local media tracks are enabled on join.
type MediaSettings struct {
	CameraEnabled     bool
	MicrophoneEnabled bool
}

// Participant is a remote participant snapshot delivered with updates.
type Participant struct {
	ID          string
	DisplayName string
	MicState    string
}

// Handler receives transport callbacks. Implementations must tolerate
// at-least-once delivery: the transport may repeat state notifications.
type Handler interface {
	// CallStateChanged reports joined/left transitions. Unrecognized
	// states may be delivered and are ignored by the session.
	CallStateChanged(state CallState)

	// ParticipantUpdated reports a participant media/identity change.
	ParticipantUpdated(participant Participant)

	// AppMessageReceived delivers a raw data channel payload.
	AppMessageReceived(data []byte, from string)

	// FatalError reports an unrecoverable transport failure.
	FatalError(err error)
}

// Session is one live attachment to a call. A session is single-use: after
// Leave or a fatal error it must not be joined again.
type Session interface {
	// Join connects to the call at url with the given media settings.
	Join(ctx context.Context, url string, settings MediaSettings) error

	// Leave disconnects from the call.
	Leave(ctx context.Context) error

	// SendAppMessage sends a data channel payload to the given
	// participant ID, or to everyone when to is TargetAll.
	SendAppMessage(data []byte, to string) error

	// SetMicrophoneEnabled toggles the local microphone track.
	SetMicrophoneEnabled(enabled bool) error
}

// Factory creates a fresh transport session for a single call attempt,
// wiring its callbacks to handler.
type Factory interface {
	NewSession(handler Handler) (Session, error)
}
