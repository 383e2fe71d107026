package call

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/unbtbl-forks/vapi-go/pkg/core"
)

// App message discriminants sent by the backend over the transport's data
// channel.
const (
	msgTypeFunctionCall = "functionCall"
	msgTypeHang         = "hang"
	msgTypeTranscript   = "transcript"
)

// DecodeAppMessage turns a raw transport app message into a typed Event.
//
// The transport wraps its JSON payload as a JSON string literal, so the raw
// bytes arrive double-encoded. unwrapAppMessage strips that layer before the
// payload is parsed. Decode failures are non-fatal to the session; the
// caller logs and drops them.
func DecodeAppMessage(raw []byte) (Event, error) {
	data := unwrapAppMessage(raw)

	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, core.NewDecodingErrorCause("parse app message envelope", err)
	}

	switch envelope.Type {
	case msgTypeFunctionCall:
		return decodeFunctionCall(data)
	case msgTypeHang:
		return HangEvent{}, nil
	case msgTypeTranscript:
		return decodeTranscript(data)
	default:
		return nil, core.NewDecodingError(
			fmt.Sprintf("unrecognized message type %q", envelope.Type), "type")
	}
}

// unwrapAppMessage strips exactly one layer of JSON string encoding.
//
// Exactly one leading and one trailing quote are removed, then escaped
// backslashes are unescaped before escaped quotes; reversing that order
// would double-unescape malformed input. Input that is not valid UTF-8 or
// was never wrapped passes through unchanged.
func unwrapAppMessage(raw []byte) []byte {
	if !utf8.Valid(raw) {
		return raw
	}
	text := string(raw)
	text = strings.TrimPrefix(text, `"`)
	text = strings.TrimSuffix(text, `"`)
	text = strings.ReplaceAll(text, `\\`, `\`)
	text = strings.ReplaceAll(text, `\"`, `"`)
	return []byte(text)
}

func decodeFunctionCall(data []byte) (Event, error) {
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, core.NewDecodingErrorCause("parse functionCall message", err)
	}
	fc, ok := body[msgTypeFunctionCall].(map[string]any)
	if !ok {
		return nil, core.NewDecodingError("functionCall message missing object field", "functionCall")
	}
	name, ok := fc["name"].(string)
	if !ok {
		return nil, core.NewDecodingError("functionCall message missing string field", "functionCall.name")
	}
	parameters, ok := fc["parameters"].(map[string]any)
	if !ok {
		return nil, core.NewDecodingError("functionCall message missing object field", "functionCall.parameters")
	}
	return FunctionCallEvent{Name: name, Parameters: parameters}, nil
}

func decodeTranscript(data []byte) (Event, error) {
	var transcript TranscriptEvent
	if err := json.Unmarshal(data, &transcript); err != nil {
		return nil, core.NewDecodingErrorCause("parse transcript message", err)
	}
	if transcript.Role == "" {
		return nil, core.NewDecodingError("transcript message missing field", "role")
	}
	if transcript.TranscriptType == "" {
		return nil, core.NewDecodingError("transcript message missing field", "transcriptType")
	}
	if transcript.Transcript == "" {
		return nil, core.NewDecodingError("transcript message missing field", "transcript")
	}
	return transcript, nil
}
