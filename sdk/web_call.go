package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/unbtbl-forks/vapi-go/pkg/core"
	"github.com/unbtbl-forks/vapi-go/pkg/core/call"
)

// webCallGateway issues the create-web-call request against the backend.
// It performs no retries; retry policy belongs to the HTTP transport.
type webCallGateway struct {
	baseURL    string
	publicKey  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// CreateWebCall implements call.Gateway.
func (g *webCallGateway) CreateWebCall(ctx context.Context, target call.Target) (*call.WebCall, error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(target)
	if err != nil {
		return nil, core.NewInvalidInputError("encode web call request")
	}

	url := strings.TrimRight(g.baseURL, "/") + "/call/web"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, core.NewInvalidInputError("build web call request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.publicKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, core.NewNetworkError("create web call", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.NewNetworkError("read web call response", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		g.logger.Error().Int("status", resp.StatusCode).Msg("web call request rejected")
		return nil, core.NewNetworkError(
			fmt.Sprintf("create web call: status %d", resp.StatusCode), nil)
	}

	var webCall call.WebCall
	if err := json.Unmarshal(body, &webCall); err != nil {
		return nil, core.NewDecodingErrorCause("decode web call response", err)
	}
	if webCall.WebCallURL == "" {
		return nil, core.NewDecodingError("web call response missing field", "webCallUrl")
	}
	return &webCall, nil
}

func validateTarget(target call.Target) error {
	hasID := target.AssistantID != ""
	hasSpec := len(target.Assistant) > 0
	switch {
	case hasID && hasSpec:
		return core.NewInvalidInputError("assistantId and assistant are mutually exclusive")
	case !hasID && !hasSpec:
		return core.NewInvalidInputError("either assistantId or assistant is required")
	}
	return nil
}
