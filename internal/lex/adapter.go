package lex

import (
	"errors"
	"fmt"
)

// ContextKey is the session-attribute key holding the serialized
// conversation history.
const ContextKey = "ConversationContext"

// Fulfillment states reported back to Lex.
const (
	StateFulfilled = "Fulfilled"
	StateFailed    = "Failed"
)

// ErrMissingField indicates the event lacks a field this bridge requires.
var ErrMissingField = errors.New("missing required event field")

// ExtractTurnInput pulls the utterance and any existing serialized history
// out of the event. The history is "" on a session's first turn.
func ExtractTurnInput(e *Event) (userText, rawContext string, err error) {
	if e.InputTranscript == "" {
		return "", "", fmt.Errorf("%w: inputTranscript", ErrMissingField)
	}
	return e.InputTranscript, e.SessionAttributes()[ContextKey], nil
}

// Close builds the terminal response envelope: dialog closed, intent marked
// with the given fulfillment state, session attributes persisted. The event
// is not mutated.
func Close(e *Event, attrs map[string]string, fulfillmentState string, msg Message) Envelope {
	var intent *Intent
	if e.SessionState.Intent != nil {
		closed := *e.SessionState.Intent
		closed.State = fulfillmentState
		intent = &closed
	}

	return Envelope{
		SessionState: SessionState{
			SessionAttributes: attrs,
			DialogAction:      &DialogAction{Type: "Close"},
			Intent:            intent,
		},
		Messages:          []Message{msg},
		SessionID:         e.SessionID,
		RequestAttributes: e.RequestAttributes,
	}
}

// ElicitIntent builds a response that hands the dialog back to Lex to
// recognize a new intent.
func ElicitIntent(e *Event, attrs map[string]string, msg *Message) Envelope {
	env := Envelope{
		SessionState: SessionState{
			SessionAttributes: attrs,
			DialogAction:      &DialogAction{Type: "ElicitIntent"},
		},
		RequestAttributes: e.RequestAttributes,
	}
	if msg != nil {
		env.Messages = []Message{*msg}
	}
	return env
}

// PlainText wraps content in a plain-text message.
func PlainText(content string) Message {
	return Message{ContentType: "PlainText", Content: content}
}
