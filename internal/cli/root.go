// Package cli provides the pupperctl command-line harness for exercising the
// bridge locally without a Lex or QnABot deployment in front of it.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/cobra"

	"github.com/raphaelgruber/pupper-bridge/internal/config"
	"github.com/raphaelgruber/pupper-bridge/internal/devicebus"
	"github.com/raphaelgruber/pupper-bridge/internal/dispatch"
	"github.com/raphaelgruber/pupper-bridge/internal/llm"
	"github.com/raphaelgruber/pupper-bridge/internal/metrics"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool
	publish bool
	device  string

	// Global config and collaborators
	cfg       config.Config
	logger    *slog.Logger
	collector *metrics.Collector
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "pupperctl",
	Short: "Local harness for the pupper bridge",
	Long: `Pupperctl drives the conversational bridge from a terminal: it builds the
same Lex and QnABot events the platforms would send, runs them through the
dispatcher against the real Bedrock model, and prints the envelopes.

Device messages are printed to the terminal by default; pass --publish to
send them to IoT Core like the deployed Lambda does.`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		collector = metrics.NewCollector()

		return nil
	},
}

// newDispatcher builds a dispatcher wired to Bedrock and either IoT Core or
// the terminal publisher.
func newDispatcher(ctx context.Context) (*dispatch.Dispatcher, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	bot, err := llm.NewBedrock(awsCfg, cfg)
	if err != nil {
		return nil, fmt.Errorf("init language model: %w", err)
	}

	var bus devicebus.Publisher = &terminalPublisher{}
	if publish {
		bus = devicebus.NewIoT(awsCfg, logger)
	}

	return dispatch.New(bot, bus, cfg.TopicPrefix, logger, collector), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, defaultTheme.errorStyle().Render("Error: "+err.Error()))
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&publish, "publish", false, "publish device messages to IoT Core instead of printing them")
	rootCmd.PersistentFlags().StringVar(&device, "device", "cli", "device name used as the session-id prefix")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(sendCmd)
}
