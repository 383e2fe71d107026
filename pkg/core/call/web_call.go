package call

import (
	"encoding/json"
	"time"
)

// Target selects which assistant a web call connects to. Exactly one of
// AssistantID or Assistant must be set.
type Target struct {
	// AssistantID references a backend-configured assistant.
	AssistantID string `json:"assistantId,omitempty"`

	// Assistant is an inline assistant specification.
	Assistant json.RawMessage `json:"assistant,omitempty"`
}

// WebCall is the backend's answer to a create-web-call request. It is used
// once to obtain the join target; the metadata fields are a pass-through.
type WebCall struct {
	ID         string     `json:"id,omitempty"`
	OrgID      string     `json:"orgId,omitempty"`
	WebCallURL string     `json:"webCallUrl"`
	Status     string     `json:"status,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}
