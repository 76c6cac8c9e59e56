// Package main provides the Lambda entry point for the pupper bridge: the
// fulfillment hook wired to both the Lex bot and the QnABot solution.
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/raphaelgruber/pupper-bridge/internal/config"
	"github.com/raphaelgruber/pupper-bridge/internal/devicebus"
	"github.com/raphaelgruber/pupper-bridge/internal/dispatch"
	"github.com/raphaelgruber/pupper-bridge/internal/llm"
	"github.com/raphaelgruber/pupper-bridge/internal/metrics"
)

const version = "0.1.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger (dual output: stderr text + file JSON)
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	logger.Info("pupper-bridge starting",
		"version", version,
		"region", cfg.AWSRegion,
		"model", cfg.BedrockModelID,
		"topic_prefix", cfg.TopicPrefix,
	)

	ctx := context.Background()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		logger.Error("failed to load aws config", "error", err)
		os.Exit(1)
	}

	bot, err := llm.NewBedrock(awsCfg, cfg)
	if err != nil {
		logger.Error("failed to create language model", "error", err)
		os.Exit(1)
	}
	logger.Info("language model initialized", "model", bot.Model())

	bus := devicebus.NewIoT(awsCfg, logger)
	collector := metrics.NewCollector()
	dispatcher := dispatch.New(bot, bus, cfg.TopicPrefix, logger, collector)

	logger.Info("handler ready")

	lambda.Start(func(ctx context.Context, event json.RawMessage) (any, error) {
		return dispatcher.Handle(ctx, event)
	})
}
