package vapi

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/unbtbl-forks/vapi-go/pkg/core/transport"
)

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the backend base URL derived from the host.
// Useful for tests and plain-HTTP development backends.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client for gateway requests.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets the logger for the client. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithTransport sets the realtime transport factory. Defaults to the
// built-in websocket transport.
func WithTransport(factory transport.Factory) ClientOption {
	return func(c *Client) {
		c.transport = factory
	}
}
