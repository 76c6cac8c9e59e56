package config

import (
	"log/slog"
	"os"
	"strings"
)

// Config holds all configuration values.
type Config struct {
	// AWS / Bedrock
	AWSRegion       string
	BedrockModelID  string
	BedrockEndpoint string
	Temperature     float64

	// Device bus
	TopicPrefix string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
// Defaults match the original Lambda deployment.
func Load() Config {
	level := parseLogLevel(getEnv("PUPPER_LOG_LEVEL", "INFO"))
	// Legacy toggle from the Lambda environment: DEBUG=true forces debug logs.
	if os.Getenv("DEBUG") == "true" {
		level = slog.LevelDebug
	}

	return Config{
		AWSRegion:       getEnv("AWS_REGION", "us-west-2"),
		BedrockModelID:  getEnv("PUPPER_BEDROCK_MODEL", "amazon.titan-text-express-v1"),
		BedrockEndpoint: getEnv("PUPPER_BEDROCK_ENDPOINT", ""),
		Temperature:     0.1,

		TopicPrefix: getEnv("PUPPER_TOPIC_PREFIX", "pupper"),

		LogFile:  getEnv("PUPPER_LOG_FILE", "/tmp/pupper-bridge.log"),
		LogLevel: level,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
