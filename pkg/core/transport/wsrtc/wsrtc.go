// Package wsrtc is a reference transport adapter that attaches to a call
// over a websocket signaling channel. It implements the transport
// capability interface so the SDK can run end-to-end against any backend
// that speaks the frame protocol below; production deployments may inject
// a vendor media client instead.
//
// Frames are JSON objects discriminated by "type":
//
//	client -> server: join, leave, mic, app-message
//	server -> client: call-state, participant, app-message, error
package wsrtc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/unbtbl-forks/vapi-go/pkg/core/transport"
)

const defaultConnectTimeout = 15 * time.Second

// Factory creates wsrtc sessions.
type Factory struct {
	dialer *websocket.Dialer
	logger zerolog.Logger
}

// NewFactory creates a factory using the default websocket dialer.
func NewFactory(logger zerolog.Logger) *Factory {
	return &Factory{
		dialer: websocket.DefaultDialer,
		logger: logger.With().Str("component", "wsrtc").Logger(),
	}
}

// NewSession implements transport.Factory.
func (f *Factory) NewSession(handler transport.Handler) (transport.Session, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler must not be nil")
	}
	return &Session{
		dialer:  f.dialer,
		handler: handler,
		logger:  f.logger,
		done:    make(chan struct{}),
	}, nil
}

// Session is one websocket attachment to a call. Single-use.
type Session struct {
	dialer  *websocket.Dialer
	handler transport.Handler
	logger  zerolog.Logger

	conn      *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool
	done      chan struct{}
}

type clientFrame struct {
	Type              string          `json:"type"`
	To                string          `json:"to,omitempty"`
	Payload           json.RawMessage `json:"payload,omitempty"`
	CameraEnabled     *bool           `json:"cameraEnabled,omitempty"`
	MicrophoneEnabled *bool           `json:"microphoneEnabled,omitempty"`
	Enabled           *bool           `json:"enabled,omitempty"`
}

type serverFrame struct {
	Type        string          `json:"type"`
	State       string          `json:"state,omitempty"`
	ID          string          `json:"id,omitempty"`
	DisplayName string          `json:"displayName,omitempty"`
	MicState    string          `json:"micState,omitempty"`
	From        string          `json:"from,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Message     string          `json:"message,omitempty"`
}

// Join implements transport.Session. It dials url, announces the media
// settings and starts the read loop. Lifecycle states arrive through the
// handler once the backend acknowledges the join.
func (s *Session) Join(ctx context.Context, rawURL string, settings transport.MediaSettings) error {
	if s.conn != nil {
		return fmt.Errorf("session already joined")
	}

	wsURL, err := toWebsocketURL(rawURL)
	if err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultConnectTimeout)
		defer cancel()
	}

	conn, _, err := s.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	s.conn = conn

	camera, microphone := settings.CameraEnabled, settings.MicrophoneEnabled
	join := clientFrame{
		Type:              "join",
		CameraEnabled:     &camera,
		MicrophoneEnabled: &microphone,
	}
	if err := s.sendJSON(join); err != nil {
		_ = conn.Close()
		return fmt.Errorf("send join: %w", err)
	}

	go s.readLoop()
	return nil
}

// Leave implements transport.Session.
func (s *Session) Leave(ctx context.Context) error {
	if s.conn == nil {
		return fmt.Errorf("session not joined")
	}
	s.teardown(true)
	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// SendAppMessage implements transport.Session.
func (s *Session) SendAppMessage(data []byte, to string) error {
	return s.sendJSON(clientFrame{
		Type:    "app-message",
		To:      to,
		Payload: json.RawMessage(data),
	})
}

// SetMicrophoneEnabled implements transport.Session.
func (s *Session) SetMicrophoneEnabled(enabled bool) error {
	return s.sendJSON(clientFrame{Type: "mic", Enabled: &enabled})
}

// teardown closes the websocket once. sendLeave controls whether a leave
// frame precedes the close handshake; it is skipped when the server already
// reported a fatal error.
func (s *Session) teardown(sendLeave bool) {
	s.closeOnce.Do(func() {
		if sendLeave {
			_ = s.sendJSON(clientFrame{Type: "leave"})
		}
		s.closed.Store(true)
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(2*time.Second))
		s.writeMu.Unlock()
		_ = s.conn.Close()
	})
}

func (s *Session) sendJSON(v any) error {
	if s.conn == nil {
		return fmt.Errorf("session not joined")
	}
	if s.closed.Load() {
		return fmt.Errorf("session is closed")
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *Session) readLoop() {
	defer close(s.done)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if s.closed.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				// Clean shutdown reads as having left the call.
				s.handler.CallStateChanged(transport.CallStateLeft)
				return
			}
			s.handler.FatalError(err)
			return
		}

		var frame serverFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.logger.Warn().Err(err).Msg("dropping unparseable signaling frame")
			continue
		}

		switch frame.Type {
		case "call-state":
			s.handler.CallStateChanged(transport.CallState(frame.State))
		case "participant":
			s.handler.ParticipantUpdated(transport.Participant{
				ID:          frame.ID,
				DisplayName: frame.DisplayName,
				MicState:    frame.MicState,
			})
		case "app-message":
			s.handler.AppMessageReceived([]byte(frame.Payload), frame.From)
		case "error":
			s.teardown(false)
			s.handler.FatalError(fmt.Errorf("signaling error: %s", frame.Message))
			return
		default:
			s.logger.Debug().Str("type", frame.Type).Msg("ignoring signaling frame")
		}
	}
}

func toWebsocketURL(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse call url: %w", err)
	}
	switch parsed.Scheme {
	case "https":
		parsed.Scheme = "wss"
	case "http":
		parsed.Scheme = "ws"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported call url scheme %q", parsed.Scheme)
	}
	return parsed.String(), nil
}
