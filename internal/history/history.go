// Package history encodes and decodes the rolling conversation transcript
// carried inside the platform session store. Two shapes exist: the Lex
// variant keeps a single text transcript (Blob), the QnABot variant keeps
// parallel input/response arrays next to the transcript (Record). The shape
// is chosen by the calling adapter, never sniffed from the payload.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for history decoding.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrMalformed indicates a session blob was present but could not be
	// parsed as a valid history of the expected shape. Decoding never
	// silently drops data.
	ErrMalformed = errors.New("malformed conversation history")
)

// Greeting is the canned first AI line seeded into every fresh session.
const Greeting = "Hi there! How can I help you?"

// blobSeed opens the Lex transcript with a structured greeting so the model
// sees an example of the reply format it must produce.
const blobSeed = `AI: {"speak": "` + Greeting + `", "act": "happy"}` + "\nHuman: "

// recordSeed opens the QnABot transcript in plain text.
const recordSeed = "AI: " + Greeting

// Blob is the Lex-variant history: alternating "Human:"/"AI:" lines in one
// chat_history string, always left trailing "\nHuman: " so the next user
// utterance can be appended directly.
type Blob struct {
	ChatHistory string `json:"chat_history"`
}

// NewBlob returns a fresh transcript seeded with the greeting turn.
func NewBlob() Blob {
	return Blob{ChatHistory: blobSeed}
}

// DecodeBlob deserializes a Lex session-attribute value. An empty raw value
// means a first turn and yields the seeded transcript.
func DecodeBlob(raw string) (Blob, error) {
	if raw == "" {
		return NewBlob(), nil
	}

	var probe struct {
		ChatHistory *string `json:"chat_history"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return Blob{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if probe.ChatHistory == nil {
		return Blob{}, fmt.Errorf("%w: missing chat_history key", ErrMalformed)
	}

	return Blob{ChatHistory: *probe.ChatHistory}, nil
}

// Append returns a new transcript with one completed turn added. The raw
// model output is recorded verbatim; the trailing "\nHuman: " invariant is
// preserved.
func (b Blob) Append(input, reply string) Blob {
	return Blob{ChatHistory: b.ChatHistory + input + "\nAI: " + reply + "\nHuman: "}
}

// Encode serializes the transcript back to its session-attribute form.
func (b Blob) Encode() (string, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("encode blob history: %w", err)
	}
	return string(data), nil
}

// Record is the QnABot-variant history. The past_user_inputs and
// generated_responses arrays stay the same length after every turn.
type Record struct {
	Inputs  RecordInputs  `json:"inputs"`
	History RecordHistory `json:"history"`
}

// RecordInputs carries the current utterance and the parallel turn arrays.
type RecordInputs struct {
	Text               string   `json:"text"`
	PastUserInputs     []string `json:"past_user_inputs"`
	GeneratedResponses []string `json:"generated_responses"`
}

// RecordHistory carries the plain-text transcript fed to the model.
type RecordHistory struct {
	ChatHistory string `json:"chat_history"`
}

// NewRecord returns a fresh record for a first turn carrying the current
// utterance and no prior turns.
func NewRecord(input string) Record {
	return Record{
		Inputs: RecordInputs{
			Text:               input,
			PastUserInputs:     []string{},
			GeneratedResponses: []string{},
		},
		History: RecordHistory{ChatHistory: recordSeed},
	}
}

// DecodeRecord deserializes a QnABot session-attribute value, validating the
// parallel-array invariant. An absent value means a first turn.
func DecodeRecord(raw json.RawMessage, input string) (Record, error) {
	if len(raw) == 0 {
		return NewRecord(input), nil
	}

	var r Record
	if err := json.Unmarshal(raw, &r); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if r.Inputs.PastUserInputs == nil {
		r.Inputs.PastUserInputs = []string{}
	}
	if r.Inputs.GeneratedResponses == nil {
		r.Inputs.GeneratedResponses = []string{}
	}
	if len(r.Inputs.PastUserInputs) != len(r.Inputs.GeneratedResponses) {
		return Record{}, fmt.Errorf("%w: %d past inputs vs %d responses",
			ErrMalformed, len(r.Inputs.PastUserInputs), len(r.Inputs.GeneratedResponses))
	}

	r.Inputs.Text = input
	return r, nil
}

// Append returns a new record with one completed turn added to both parallel
// arrays and the transcript.
func (r Record) Append(input, reply string) Record {
	past := make([]string, 0, len(r.Inputs.PastUserInputs)+1)
	past = append(past, r.Inputs.PastUserInputs...)
	past = append(past, input)

	responses := make([]string, 0, len(r.Inputs.GeneratedResponses)+1)
	responses = append(responses, r.Inputs.GeneratedResponses...)
	responses = append(responses, reply)

	return Record{
		Inputs: RecordInputs{
			Text:               input,
			PastUserInputs:     past,
			GeneratedResponses: responses,
		},
		History: RecordHistory{
			ChatHistory: r.History.ChatHistory + input + "\nAI: " + reply + "\nHuman: ",
		},
	}
}

// Encode serializes the record for embedding into the QnABot response
// session map. The record is stored as a JSON object, not a string.
func (r Record) Encode() (json.RawMessage, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode record history: %w", err)
	}
	return data, nil
}

// EncodeHistory serializes just the transcript portion, which is what the
// language model's {chat_history} placeholder receives.
func (r Record) EncodeHistory() string {
	return r.History.ChatHistory
}
