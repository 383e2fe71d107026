// Package vapi is a client SDK for a voice-assistant calling backend.
//
// A Client negotiates a web call over HTTPS, joins the returned realtime
// session through an injected transport, and republishes the call's
// lifecycle and app messages as a typed event stream.
package vapi

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/unbtbl-forks/vapi-go/pkg/core/call"
	"github.com/unbtbl-forks/vapi-go/pkg/core/transport"
	"github.com/unbtbl-forks/vapi-go/pkg/core/transport/wsrtc"
)

// Client is the main entry point for the SDK. One Client manages at most
// one live call at a time.
type Client struct {
	host      string
	publicKey string

	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
	transport  transport.Factory

	session *call.Session
}

// NewClient creates a client for the backend at host, authenticating with
// publicKey. Host and key are immutable for the client's lifetime.
func NewClient(host, publicKey string, opts ...ClientOption) *Client {
	c := &Client{
		host:      host,
		publicKey: publicKey,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.baseURL == "" {
		c.baseURL = "https://" + host
	}
	if c.httpClient == nil {
		c.httpClient = newDefaultHTTPClient()
	}
	if c.transport == nil {
		c.transport = wsrtc.NewFactory(c.logger)
	}

	gateway := &webCallGateway{
		baseURL:    c.baseURL,
		publicKey:  publicKey,
		httpClient: c.httpClient,
		logger:     c.logger,
	}
	c.session = call.NewSession(gateway, c.transport, call.NewStream(), c.logger)
	return c
}

// Start requests a web call for target and joins it. It fails immediately
// when a call is already joining or active. Failures are returned and also
// published as an error event.
func (c *Client) Start(ctx context.Context, target Target) (*WebCall, error) {
	return c.session.Start(ctx, target)
}

// Stop leaves the current call, if any. Fire-and-forget: the outcome is
// observable through the event stream.
func (c *Client) Stop() {
	c.session.Stop()
}

// State returns the current call state.
func (c *Client) State() call.State {
	return c.session.State()
}

// Subscribe attaches a new event observer. Events published before the
// subscription are not replayed. Callers release the subscription with
// Close.
func (c *Client) Subscribe() *Subscription {
	return c.session.Stream().Subscribe()
}

// SetMuted toggles the local microphone of the active call.
func (c *Client) SetMuted(muted bool) error {
	return c.session.SetMuted(muted)
}

// IsMuted reports whether the local microphone is muted.
func (c *Client) IsMuted() bool {
	return c.session.IsMuted()
}

// Say asks the assistant to speak text on the active call. Best-effort.
func (c *Client) Say(text string) error {
	return c.session.Say(text)
}
