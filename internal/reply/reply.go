// Package reply interprets raw language-model output as a structured robot
// reply.
package reply

import "encoding/json"

// Act is the facial expression the robot performs alongside a reply.
type Act string

// Recognized facial expressions.
const (
	ActHappy Act = "happy"
	ActAngry Act = "angry"
	ActSad   Act = "sad"
	ActNone  Act = "none"
)

// Move is a body movement the robot performs.
type Move string

// Recognized movements.
const (
	MoveNone  Move = "none"
	MoveDance Move = "dance"
	MoveStop  Move = "stop"
)

// FallbackSpeak is the canned reply used whenever the model output cannot be
// understood.
const FallbackSpeak = "I'm sorry, I can't brain right now"

// Structured is a parsed robot reply, in the exact shape published to the
// device bus.
type Structured struct {
	Speak string `json:"speak"`
	Act   Act    `json:"act,omitempty"`
	Move  Move   `json:"move,omitempty"`
}

// Fallback returns the canned degraded reply.
func Fallback() Structured {
	return Structured{Speak: FallbackSpeak}
}

// Parse attempts to read raw model output as a {"speak", "act"} JSON object,
// filling in move "none" when absent. Any failure (invalid JSON, missing
// speak key) degrades to the fixed fallback reply; parse failure is never an
// error for the caller. The second return reports whether parsing succeeded,
// which gates forwarding the reply to the device.
func Parse(raw string) (Structured, bool) {
	var probe struct {
		Speak *string `json:"speak"`
		Act   Act     `json:"act"`
		Move  Move    `json:"move"`
	}
	if err := json.Unmarshal([]byte(raw), &probe); err != nil {
		return Fallback(), false
	}
	if probe.Speak == nil {
		return Fallback(), false
	}

	s := Structured{
		Speak: *probe.Speak,
		Act:   probe.Act,
		Move:  probe.Move,
	}
	if s.Move == "" {
		s.Move = MoveNone
	}
	return s, true
}
