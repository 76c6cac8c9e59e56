package devicebus

import "github.com/raphaelgruber/pupper-bridge/internal/reply"

// Command is a recognized device action the user can trigger directly by
// intent, bypassing the language model.
type Command string

// Recognized commands.
const (
	CommandDance Command = "dance"
	CommandStop  Command = "stop"
)

// intentCommands maps Lex intent names to device commands.
var intentCommands = map[string]Command{
	"PupperDance": CommandDance,
	"PupperStop":  CommandStop,
}

// CommandForIntent reports the device command bound to a Lex intent name, if
// any.
func CommandForIntent(name string) (Command, bool) {
	cmd, ok := intentCommands[name]
	return cmd, ok
}

// Route maps a command to the message published on the bus. The device
// always receives a complete reply shape; commands speak nothing.
func Route(cmd Command) (reply.Structured, bool) {
	switch cmd {
	case CommandDance:
		return reply.Structured{Speak: "", Act: reply.ActHappy, Move: reply.MoveDance}, true
	case CommandStop:
		return reply.Structured{Speak: "", Act: reply.ActNone, Move: reply.MoveStop}, true
	}
	return reply.Structured{}, false
}
