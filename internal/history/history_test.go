package history

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBlobAbsent(t *testing.T) {
	first, err := DecodeBlob("")
	require.NoError(t, err)
	second, err := DecodeBlob("")
	require.NoError(t, err)

	// First-turn synthesis is deterministic.
	assert.Equal(t, first, second)
	assert.Contains(t, first.ChatHistory, Greeting)
	assert.True(t, strings.HasSuffix(first.ChatHistory, "\nHuman: "))
}

func TestBlobRoundTrip(t *testing.T) {
	h := NewBlob()
	h = h.Append("what is your name", `{"speak": "My name is mini pupper!", "act": "happy"}`)
	h = h.Append("dance for me", `{"speak": "Watch this!", "act": "happy"}`)

	encoded, err := h.Encode()
	require.NoError(t, err)

	decoded, err := DecodeBlob(encoded)
	require.NoError(t, err)
	assert.Equal(t, h, decoded)
}

func TestBlobAppend(t *testing.T) {
	h := NewBlob()
	appended := h.Append("hello", "reply")

	// Append is non-destructive.
	assert.Equal(t, NewBlob(), h)

	assert.True(t, strings.HasSuffix(appended.ChatHistory, "hello\nAI: reply\nHuman: "))
	assert.True(t, strings.HasPrefix(appended.ChatHistory, h.ChatHistory))
}

func TestDecodeBlobMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid json", "not json"},
		{"missing key", `{"other": "value"}`},
		{"wrong type", `{"chat_history": 42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBlob(tt.raw)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecodeRecordAbsent(t *testing.T) {
	r, err := DecodeRecord(nil, "hello")
	require.NoError(t, err)

	assert.Equal(t, "hello", r.Inputs.Text)
	assert.Empty(t, r.Inputs.PastUserInputs)
	assert.Empty(t, r.Inputs.GeneratedResponses)
	assert.Equal(t, "AI: "+Greeting, r.History.ChatHistory)
}

func TestRecordRoundTrip(t *testing.T) {
	r := NewRecord("hello")
	r = r.Append("hello", "hi there")

	encoded, err := r.Encode()
	require.NoError(t, err)

	decoded, err := DecodeRecord(encoded, "hello")
	require.NoError(t, err)
	assert.Equal(t, r, decoded)
}

func TestRecordAppendKeepsArraysParallel(t *testing.T) {
	r := NewRecord("one")
	r = r.Append("one", "first reply")
	r = r.Append("two", "second reply")

	require.Len(t, r.Inputs.PastUserInputs, 2)
	require.Len(t, r.Inputs.GeneratedResponses, 2)
	assert.Equal(t, []string{"one", "two"}, r.Inputs.PastUserInputs)
	assert.Equal(t, []string{"first reply", "second reply"}, r.Inputs.GeneratedResponses)
	assert.Equal(t, "two", r.Inputs.Text)
	assert.True(t, strings.HasSuffix(r.History.ChatHistory, "two\nAI: second reply\nHuman: "))
}

func TestDecodeRecordMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid json", "{"},
		{"unbalanced arrays", `{"inputs": {"text": "", "past_user_inputs": ["a", "b"], "generated_responses": ["x"]}, "history": {"chat_history": ""}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRecord(json.RawMessage(tt.raw), "next")
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecodeRecordNormalizesNilArrays(t *testing.T) {
	raw := `{"inputs": {"text": "old"}, "history": {"chat_history": "AI: hi"}}`

	r, err := DecodeRecord(json.RawMessage(raw), "new question")
	require.NoError(t, err)

	assert.NotNil(t, r.Inputs.PastUserInputs)
	assert.NotNil(t, r.Inputs.GeneratedResponses)
	// Decoding adopts the current utterance.
	assert.Equal(t, "new question", r.Inputs.Text)
}
