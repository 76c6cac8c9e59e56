package qnabot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/pupper-bridge/internal/history"
)

func sampleEvent(t *testing.T, session string) Event {
	t.Helper()

	req := `{"question": "hello", "intentname": "CustomNoMatches", "session": ` + session + `, "extra": "kept"}`
	return Event{
		Req: json.RawMessage(req),
		Res: map[string]any{
			"type":    "plaintext",
			"session": map[string]any{"topic": "pets"},
		},
	}
}

func TestExtractTurnInput(t *testing.T) {
	event := sampleEvent(t, `{}`)

	text, rawContext, err := ExtractTurnInput(&event)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Nil(t, rawContext)
}

func TestExtractTurnInputWithContext(t *testing.T) {
	session := `{"ConversationContext": {"inputs": {"text": "old", "past_user_inputs": ["old"], "generated_responses": ["hi"]}, "history": {"chat_history": "AI: hi"}}}`
	event := sampleEvent(t, session)

	_, rawContext, err := ExtractTurnInput(&event)
	require.NoError(t, err)

	record, err := history.DecodeRecord(rawContext, "hello")
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, record.Inputs.PastUserInputs)
}

func TestExtractTurnInputMissingQuestion(t *testing.T) {
	event := Event{Req: json.RawMessage(`{"intentname": "CustomNoMatches"}`)}

	_, _, err := ExtractTurnInput(&event)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestExtractTurnInputBadReq(t *testing.T) {
	event := Event{Req: json.RawMessage(`[]`)}

	_, _, err := ExtractTurnInput(&event)
	assert.Error(t, err)
}

func TestBuildEnvelope(t *testing.T) {
	event := sampleEvent(t, `{}`)
	record := history.NewRecord("hello").Append("hello", "hi, human!")

	envelope, err := BuildEnvelope(&event, record, "hi, human!")
	require.NoError(t, err)

	assert.Equal(t, "hi, human!", envelope.Res["message"])
	assert.Equal(t, "plaintext", envelope.Res["type"])

	// req is echoed back untouched.
	assert.JSONEq(t, string(event.Req), string(envelope.Req))

	session, ok := envelope.Res["session"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "pets", session["topic"])

	stored, ok := session[ContextKey].(json.RawMessage)
	require.True(t, ok)
	decoded, err := history.DecodeRecord(stored, "next")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, decoded.Inputs.PastUserInputs)
	assert.Equal(t, []string{"hi, human!"}, decoded.Inputs.GeneratedResponses)

	// The inbound event is left untouched.
	_, ok = event.Res["message"]
	assert.False(t, ok)
}

func TestFailureEnvelope(t *testing.T) {
	event := sampleEvent(t, `{}`)

	envelope := FailureEnvelope(&event, "I'm sorry, I can't brain right now")

	assert.Equal(t, "I'm sorry, I can't brain right now", envelope.Res["message"])
	assert.Equal(t, "plaintext", envelope.Res["type"])

	// Prior session state is preserved, never clobbered.
	session, ok := envelope.Res["session"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "pets", session["topic"])
}

func TestPrimeMessage(t *testing.T) {
	event := Event{}
	PrimeMessage(&event, "Hi! This is your Custom Go Hook speaking!")
	assert.Equal(t, "Hi! This is your Custom Go Hook speaking!", event.Res["message"])
}
