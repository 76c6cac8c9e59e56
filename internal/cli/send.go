package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <event.json>",
	Short: "Dispatch a raw platform event and print the envelope",
	Long: `Send reads a raw Lex or QnABot event from a JSON file (or stdin with "-"),
runs it through the dispatcher, and prints the response envelope.

Examples:
  pupperctl send testdata/lex-fallback.json
  pupperctl send testdata/qnabot-hello.json
  cat event.json | pupperctl send -`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	var raw []byte
	var err error

	if args[0] == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read event: %w", err)
	}

	ctx := context.Background()
	dispatcher, err := newDispatcher(ctx)
	if err != nil {
		return err
	}

	envelope, err := dispatcher.Handle(ctx, raw)
	if err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}

	out, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
