package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/raphaelgruber/pupper-bridge/internal/dispatch"
	"github.com/raphaelgruber/pupper-bridge/internal/lex"
	"github.com/raphaelgruber/pupper-bridge/internal/metrics"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the robot through the Lex fallback path",
	Long: `Chat runs an interactive conversation against the dispatcher, building one
Lex FallbackIntent event per line and carrying the session attributes across
turns the way the Lex session store would.

Type "dance" or "stop" to trigger the device-command intents directly.
Exit with "exit", "quit" or Ctrl-D.

Examples:
  pupperctl chat
  pupperctl chat --device ngl --publish`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	dispatcher, err := newDispatcher(ctx)
	if err != nil {
		return err
	}

	sessionID := device + "-" + uuid.NewString()
	attrs := map[string]string{}

	fmt.Println(defaultTheme.hintStyle().Render("session " + sessionID))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		event := buildChatEvent(sessionID, input, attrs)
		envelope := dispatcher.HandleLex(ctx, &event)

		for _, msg := range envelope.Messages {
			fmt.Println(defaultTheme.robotStyle().Render("Pupper: ") + msg.Content)
		}

		// Carry the session store forward like Lex would.
		if envelope.SessionState.SessionAttributes != nil {
			attrs = envelope.SessionState.SessionAttributes
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	printStats(collector.Snapshot())
	return nil
}

// buildChatEvent shapes one terminal line as the Lex event the bridge would
// receive in production. The command words map to their device intents.
func buildChatEvent(sessionID, input string, attrs map[string]string) lex.Event {
	intentName := dispatch.FallbackIntent
	switch strings.ToLower(input) {
	case "dance":
		intentName = "PupperDance"
	case "stop":
		intentName = "PupperStop"
	}

	return lex.Event{
		SessionID:       sessionID,
		InputTranscript: input,
		Bot:             lex.BotInfo{LocaleID: "en_US"},
		SessionState: lex.SessionState{
			SessionAttributes: attrs,
			Intent: &lex.Intent{
				Name:  intentName,
				State: "ReadyForFulfillment",
			},
		},
	}
}

// printStats prints the session's collected metrics on exit.
func printStats(snap metrics.Snapshot) {
	hint := defaultTheme.hintStyle()
	if snap.Turn != nil {
		fmt.Println(hint.Render(fmt.Sprintf("turns: %d (avg %.0fms)", snap.Turn.Count, snap.Turn.AvgTimeMs)))
	}
	if snap.LLMGenerate != nil {
		fmt.Println(hint.Render(fmt.Sprintf("model calls: %d (avg %.0fms, %d failed)",
			snap.LLMGenerate.Count, snap.LLMGenerate.AvgTimeMs, snap.LLMGenerate.Errors)))
	}
	if snap.DevicePublish != nil {
		fmt.Println(hint.Render(fmt.Sprintf("device messages: %d (%d failed)",
			snap.DevicePublish.Count, snap.DevicePublish.Errors)))
	}
}
