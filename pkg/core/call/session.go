package call

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/unbtbl-forks/vapi-go/pkg/core"
	"github.com/unbtbl-forks/vapi-go/pkg/core/transport"
)

// AssistantSpeakerName is the reserved display identity of the assistant's
// audio participant. The readiness handshake keys on it.
const AssistantSpeakerName = "Vapi Speaker"

// playableAck is broadcast to all participants once the assistant speaker's
// microphone becomes playable.
var playableAck = []byte(`{"message":"playable"}`)

// State is the session lifecycle state.
type State int

const (
	// StateIdle means no call is held; Start is accepted.
	StateIdle State = iota
	// StateJoining means a call slot is reserved: the web call request or
	// the transport join is in flight.
	StateJoining
	// StateActive means a transport session is joined.
	StateActive
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateJoining:
		return "joining"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Gateway obtains a join URL for an assistant target.
type Gateway interface {
	CreateWebCall(ctx context.Context, target Target) (*WebCall, error)
}

// activeCall is the exclusive handle on a joined transport session. At most
// one exists per Session; it lives between a successful join and the
// leave/failure that releases it.
type activeCall struct {
	id      uuid.UUID
	session transport.Session
	muted   bool
}

// Session is the single-call-at-a-time state machine. It owns at most one
// live transport session, converts transport callbacks into events on its
// Stream and enforces mutual exclusion on Start.
//
// All state transitions and event emissions are serialized under one mutex;
// only the transport join and leave calls run outside it.
type Session struct {
	gateway   Gateway
	transport transport.Factory
	stream    *Stream
	logger    zerolog.Logger

	mu            sync.Mutex
	state         State
	active        *activeCall
	stopRequested bool
}

// NewSession creates an idle session.
func NewSession(gateway Gateway, factory transport.Factory, stream *Stream, logger zerolog.Logger) *Session {
	return &Session{
		gateway:   gateway,
		transport: factory,
		stream:    stream,
		logger:    logger.With().Str("component", "call-session").Logger(),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stream returns the session's event stream.
func (s *Session) Stream() *Stream {
	return s.stream
}

// Start requests a web call for target and joins it. It fails with an
// already-in-call error, without touching the network, unless the session
// is idle. Request-phase failures are both returned and emitted as an
// error event.
func (s *Session) Start(ctx context.Context, target Target) (*WebCall, error) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return nil, core.NewAlreadyInCallError()
	}
	s.state = StateJoining
	s.stopRequested = false
	s.mu.Unlock()

	webCall, err := s.gateway.CreateWebCall(ctx, target)
	if err != nil {
		return nil, s.failStart("create web call", err)
	}

	session, err := s.transport.NewSession(s)
	if err != nil {
		return nil, s.failStart("create transport session", core.NewTransportError("create transport session", err))
	}

	settings := transport.MediaSettings{
		CameraEnabled:     false,
		MicrophoneEnabled: true,
	}
	if err := session.Join(ctx, webCall.WebCallURL, settings); err != nil {
		return nil, s.failStart("join call", core.NewTransportError("join call", err))
	}

	s.mu.Lock()
	if s.state == StateIdle {
		// A fatal error or left callback ended the call while the join
		// was settling. Leave the orphaned transport session instead of
		// installing it.
		s.mu.Unlock()
		s.logger.Info().Str("call_id", webCall.ID).Msg("call ended during join")
		s.leaveAsync(session)
		return webCall, nil
	}
	handle := &activeCall{id: uuid.New(), session: session}
	s.active = handle
	// The transport may have reported joined already; emit the start
	// event only on the Joining -> Active transition.
	if s.state == StateJoining {
		s.state = StateActive
		s.stream.Publish(CallStartEvent{})
	}
	stopped := s.stopRequested
	s.mu.Unlock()

	s.logger.Info().
		Str("call_id", webCall.ID).
		Str("session_id", handle.id.String()).
		Msg("call started")

	// Stop raced with the in-flight join and wins: leave right away and
	// let the left callback end the call.
	if stopped {
		s.leaveAsync(session)
	}
	return webCall, nil
}

// failStart rolls the session back to idle, emits the error event and
// returns the error for the synchronous caller.
func (s *Session) failStart(op string, err error) error {
	s.mu.Lock()
	s.state = StateIdle
	s.active = nil
	s.stream.Publish(ErrorEvent{Err: err})
	s.mu.Unlock()

	s.logger.Error().Err(err).Str("op", op).Msg("start failed")
	return err
}

// Stop leaves the current call, if any. It is fire-and-forget: completion
// is observable only through the eventual call.end or error event. Stopping
// an idle session is a no-op. A Stop issued while a Start is still joining
// wins the race: the join settles, then the session leaves immediately.
func (s *Session) Stop() {
	s.mu.Lock()
	switch s.state {
	case StateIdle:
		s.mu.Unlock()
		return
	case StateJoining:
		// The join is still in flight; Start's completion path leaves.
		s.stopRequested = true
		s.mu.Unlock()
		return
	}
	active := s.active
	s.mu.Unlock()

	if active != nil {
		s.leaveAsync(active.session)
	}
}

func (s *Session) leaveAsync(session transport.Session) {
	go func() {
		if err := session.Leave(context.Background()); err != nil {
			s.logger.Warn().Err(err).Msg("leave failed")
		}
	}()
}

// SetMuted toggles the local microphone of the active call.
func (s *Session) SetMuted(muted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return core.NewTransportError("set muted: no active call", nil)
	}
	if err := s.active.session.SetMicrophoneEnabled(!muted); err != nil {
		return core.NewTransportError("set muted", err)
	}
	s.active.muted = muted
	return nil
}

// IsMuted reports whether the local microphone is muted. False when idle.
func (s *Session) IsMuted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil && s.active.muted
}

// Say sends a control app message asking the assistant to speak text.
// Best-effort: send failures are logged, not surfaced.
func (s *Session) Say(text string) error {
	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if active == nil {
		return core.NewTransportError("say: no active call", nil)
	}

	payload, err := json.Marshal(map[string]string{
		"type":    "add-message",
		"message": text,
	})
	if err != nil {
		return core.NewInvalidInputError("encode say message")
	}
	go func() {
		if err := active.session.SendAppMessage(payload, transport.TargetAll); err != nil {
			s.logger.Warn().Err(err).Msg("say send failed")
		}
	}()
	return nil
}

// CallStateChanged implements transport.Handler.
func (s *Session) CallStateChanged(state transport.CallState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch state {
	case transport.CallStateJoined:
		// The transport delivers joined at least once; duplicates
		// re-emit the start event rather than erroring.
		if s.state == StateJoining {
			s.state = StateActive
		}
		s.stream.Publish(CallStartEvent{})
	case transport.CallStateLeft:
		s.stream.Publish(CallEndEvent{})
		s.state = StateIdle
		s.active = nil
		s.logger.Info().Msg("call ended")
	default:
		// Unrecognized states carry no transition.
	}
}

// FatalError implements transport.Handler. A transport failure always
// terminates the call.
func (s *Session) FatalError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stream.Publish(ErrorEvent{Err: core.NewTransportError("transport failure", err)})
	s.state = StateIdle
	s.active = nil
	s.logger.Error().Err(err).Msg("transport failure")
}

// ParticipantUpdated implements transport.Handler. When the assistant
// speaker's microphone becomes playable, a playable ack is broadcast so the
// backend starts the assistant audio. This runs on every update; the
// transport may re-deliver the same state and the ack is sent again.
func (s *Session) ParticipantUpdated(participant transport.Participant) {
	if participant.MicState != transport.MicStatePlayable {
		return
	}
	if participant.DisplayName != AssistantSpeakerName {
		return
	}

	s.mu.Lock()
	active := s.active
	s.mu.Unlock()
	if active == nil {
		return
	}

	go func() {
		if err := active.session.SendAppMessage(playableAck, transport.TargetAll); err != nil {
			s.logger.Warn().Err(err).Msg("playable ack send failed")
		}
	}()
}

// AppMessageReceived implements transport.Handler. Malformed messages are
// logged and dropped; a single bad payload must not end the call.
func (s *Session) AppMessageReceived(data []byte, from string) {
	event, err := DecodeAppMessage(data)
	if err != nil {
		s.logger.Warn().Err(err).Str("from", from).Msg("dropping undecodable app message")
		return
	}

	s.mu.Lock()
	s.stream.Publish(event)
	s.mu.Unlock()
}
