// Package lex adapts Lex V2 fulfillment events: pulling the utterance and
// session attributes out of the inbound event and building the response
// envelopes the Lex runtime expects.
package lex

// Event is the Lex V2 fulfillment-hook input.
// https://docs.aws.amazon.com/lexv2/latest/dg/lambda-input-format.html
type Event struct {
	SessionID         string            `json:"sessionId"`
	InputTranscript   string            `json:"inputTranscript"`
	Bot               BotInfo           `json:"bot"`
	SessionState      SessionState      `json:"sessionState"`
	RequestAttributes map[string]string `json:"requestAttributes,omitempty"`
}

// BotInfo identifies the bot and locale the event came from.
type BotInfo struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	AliasID  string `json:"aliasId,omitempty"`
	Version  string `json:"version,omitempty"`
	LocaleID string `json:"localeId"`
}

// SessionState carries the intent under fulfillment and the session
// attributes the platform persists between turns.
type SessionState struct {
	SessionAttributes    map[string]string `json:"sessionAttributes,omitempty"`
	Intent               *Intent           `json:"intent,omitempty"`
	DialogAction         *DialogAction     `json:"dialogAction,omitempty"`
	OriginatingRequestID string            `json:"originatingRequestId,omitempty"`
}

// Intent is the recognized intent with its slot values.
type Intent struct {
	Name              string          `json:"name"`
	Slots             map[string]Slot `json:"slots,omitempty"`
	State             string          `json:"state,omitempty"`
	ConfirmationState string          `json:"confirmationState,omitempty"`
}

// Slot holds one interpreted slot value.
type Slot struct {
	Value *SlotValue `json:"value,omitempty"`
}

// SlotValue is the resolved value of a slot.
type SlotValue struct {
	OriginalValue    string `json:"originalValue,omitempty"`
	InterpretedValue string `json:"interpretedValue"`
}

// DialogAction tells Lex what to do next with the dialog.
type DialogAction struct {
	Type string `json:"type"`
}

// Message is one outbound message to the user.
type Message struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Envelope is the fulfillment-hook response.
type Envelope struct {
	SessionState      SessionState      `json:"sessionState"`
	Messages          []Message         `json:"messages"`
	SessionID         string            `json:"sessionId,omitempty"`
	RequestAttributes map[string]string `json:"requestAttributes,omitempty"`
}

// IntentName returns the name of the intent under fulfillment, or "" when
// the event carries none.
func (e *Event) IntentName() string {
	if e.SessionState.Intent == nil {
		return ""
	}
	return e.SessionState.Intent.Name
}

// Slots returns the slot map of the intent under fulfillment.
func (e *Event) Slots() map[string]Slot {
	if e.SessionState.Intent == nil {
		return nil
	}
	return e.SessionState.Intent.Slots
}

// SlotValue returns the interpreted value of a named slot, or "" when the
// slot is absent or unfilled.
func (e *Event) SlotValue(name string) string {
	slot, ok := e.Slots()[name]
	if !ok || slot.Value == nil {
		return ""
	}
	return slot.Value.InterpretedValue
}

// SessionAttributes returns a mutable copy of the event's session
// attributes, never nil.
func (e *Event) SessionAttributes() map[string]string {
	attrs := make(map[string]string, len(e.SessionState.SessionAttributes))
	for k, v := range e.SessionState.SessionAttributes {
		attrs[k] = v
	}
	return attrs
}
