package call

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unbtbl-forks/vapi-go/pkg/core"
)

func TestDecodeAppMessage_HangDoubleEncoded(t *testing.T) {
	t.Parallel()

	raw := []byte(`"{\"type\":\"hang\"}"`)
	event, err := DecodeAppMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, HangEvent{}, event)
}

func TestDecodeAppMessage_FunctionCallDoubleEncoded(t *testing.T) {
	t.Parallel()

	raw := []byte(`"{\"type\":\"functionCall\",\"functionCall\":{\"name\":\"lookup\",\"parameters\":{\"city\":\"NYC\"}}}"`)
	event, err := DecodeAppMessage(raw)
	require.NoError(t, err)

	fc, ok := event.(FunctionCallEvent)
	require.True(t, ok, "expected FunctionCallEvent, got %T", event)
	assert.Equal(t, "lookup", fc.Name)
	assert.Equal(t, map[string]any{"city": "NYC"}, fc.Parameters)
}

func TestDecodeAppMessage_TranscriptDoubleEncoded(t *testing.T) {
	t.Parallel()

	raw := []byte(`"{\"type\":\"transcript\",\"role\":\"assistant\",\"transcriptType\":\"final\",\"transcript\":\"hello there\"}"`)
	event, err := DecodeAppMessage(raw)
	require.NoError(t, err)

	tr, ok := event.(TranscriptEvent)
	require.True(t, ok, "expected TranscriptEvent, got %T", event)
	assert.Equal(t, "assistant", tr.Role)
	assert.Equal(t, "hello there", tr.Transcript)
	assert.True(t, tr.Final())
}

func TestDecodeAppMessage_UnknownDiscriminant(t *testing.T) {
	t.Parallel()

	raw := []byte(`"{\"type\":\"somethingElse\"}"`)
	event, err := DecodeAppMessage(raw)
	assert.Nil(t, event)
	require.Error(t, err)
	assert.True(t, core.IsType(err, core.ErrDecoding))
	assert.Contains(t, err.Error(), "unrecognized message type")
}

// Clean JSON that was never wrapped as a string literal and contains no
// escape sequences of its own must pass through the unescaping untouched.
// Clean input that does contain \" or \\ sequences is outside this
// guarantee: the unwrapping assumes the transport always double-encodes.
func TestDecodeAppMessage_CleanInputNotCorrupted(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"type":"transcript","role":"user","transcriptType":"partial","transcript":"say hi"}`)
	event, err := DecodeAppMessage(raw)
	require.NoError(t, err)

	tr, ok := event.(TranscriptEvent)
	require.True(t, ok)
	assert.Equal(t, "say hi", tr.Transcript)
	assert.False(t, tr.Final())
}

func TestDecodeAppMessage_FunctionCallMissingFields(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		raw   string
		param string
	}{
		{"missing nested object", `{"type":"functionCall"}`, "functionCall"},
		{"missing name", `{"type":"functionCall","functionCall":{"parameters":{}}}`, "functionCall.name"},
		{"missing parameters", `{"type":"functionCall","functionCall":{"name":"lookup"}}`, "functionCall.parameters"},
		{"parameters not an object", `{"type":"functionCall","functionCall":{"name":"lookup","parameters":[1]}}`, "functionCall.parameters"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeAppMessage([]byte(tc.raw))
			require.Error(t, err)
			assert.True(t, core.IsType(err, core.ErrDecoding))
			assert.Contains(t, err.Error(), tc.param)
		})
	}
}

func TestDecodeAppMessage_TranscriptMissingField(t *testing.T) {
	t.Parallel()

	_, err := DecodeAppMessage([]byte(`{"type":"transcript","role":"user","transcriptType":"final"}`))
	require.Error(t, err)
	assert.True(t, core.IsType(err, core.ErrDecoding))
	assert.Contains(t, err.Error(), "transcript")
}

func TestDecodeAppMessage_NotJSON(t *testing.T) {
	t.Parallel()

	_, err := DecodeAppMessage([]byte("not json at all"))
	require.Error(t, err)
	assert.True(t, core.IsType(err, core.ErrDecoding))
}

func TestDecodeAppMessage_InvalidUTF8PassesThrough(t *testing.T) {
	t.Parallel()

	// Invalid UTF-8 skips the unescaping and fails at the JSON parse.
	_, err := DecodeAppMessage([]byte{0xff, 0xfe, 0xfd})
	require.Error(t, err)
	assert.True(t, core.IsType(err, core.ErrDecoding))
}

func TestUnwrapAppMessage_UnescapeOrder(t *testing.T) {
	t.Parallel()

	// Backslashes are unescaped before quotes; reversing the order would
	// turn the literal \\\" sequence into a bare quote twice.
	got := unwrapAppMessage([]byte(`"{\"note\":\"a \\\\ b\"}"`))
	assert.Equal(t, `{"note":"a \\ b"}`, string(got))
}
