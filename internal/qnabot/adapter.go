// Package qnabot adapts QnABot on AWS lambda-hook events. The hook receives
// the full {req, res} pair and answers by returning it with res filled in.
// https://docs.aws.amazon.com/solutions/latest/qnabot-on-aws/specifying-lambda-hook-functions.html
package qnabot

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/raphaelgruber/pupper-bridge/internal/history"
)

// ContextKey is the session key holding the conversation history record.
const ContextKey = "ConversationContext"

// ErrMissingField indicates the event lacks a field this bridge requires.
var ErrMissingField = errors.New("missing required event field")

// Event is the QnABot lambda-hook input. Req is kept raw and echoed back in
// the response so fields this bridge never reads survive the round trip.
type Event struct {
	Req json.RawMessage `json:"req"`
	Res map[string]any  `json:"res"`
}

// Request is the subset of req this bridge reads.
type Request struct {
	Question   string                     `json:"question"`
	IntentName string                     `json:"intentname"`
	Session    map[string]json.RawMessage `json:"session"`
}

// Request parses the raw req payload.
func (e *Event) Request() (Request, error) {
	var req Request
	if err := json.Unmarshal(e.Req, &req); err != nil {
		return Request{}, fmt.Errorf("parse qnabot req: %w", err)
	}
	return req, nil
}

// ExtractTurnInput pulls the question and any existing history record out of
// the event. The record is nil on a session's first turn.
func ExtractTurnInput(e *Event) (userText string, rawContext json.RawMessage, err error) {
	req, err := e.Request()
	if err != nil {
		return "", nil, err
	}
	if req.Question == "" {
		return "", nil, fmt.Errorf("%w: req.question", ErrMissingField)
	}
	return req.Question, req.Session[ContextKey], nil
}

// BuildEnvelope fills in res with the plain-text reply and the updated
// history record and returns the event as the hook response. The inbound
// event is not mutated; res and its session map are copied.
func BuildEnvelope(e *Event, rec history.Record, message string) (Event, error) {
	encoded, err := rec.Encode()
	if err != nil {
		return Event{}, err
	}

	res := make(map[string]any, len(e.Res)+3)
	for k, v := range e.Res {
		res[k] = v
	}

	session := make(map[string]any)
	if prior, ok := res["session"].(map[string]any); ok {
		for k, v := range prior {
			session[k] = v
		}
	}
	session[ContextKey] = json.RawMessage(encoded)

	res["session"] = session
	res["message"] = message
	res["type"] = "plaintext"

	return Event{Req: e.Req, Res: res}, nil
}

// FailureEnvelope answers with a plain-text message without touching the
// stored conversation context. Used by the dispatch error boundary.
func FailureEnvelope(e *Event, message string) Event {
	res := make(map[string]any, len(e.Res)+2)
	for k, v := range e.Res {
		res[k] = v
	}
	res["message"] = message
	res["type"] = "plaintext"
	return Event{Req: e.Req, Res: res}
}

// PrimeMessage sets the greeting the original hook placed on res before
// dispatch; the conversational reply overwrites it on success.
func PrimeMessage(e *Event, message string) {
	if e.Res == nil {
		e.Res = make(map[string]any, 1)
	}
	e.Res["message"] = message
}
