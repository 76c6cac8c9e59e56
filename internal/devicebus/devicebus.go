// Package devicebus publishes robot commands and replies onto the device
// message channel. Production traffic goes to AWS IoT Core; tests inject a
// fake Publisher.
package devicebus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
)

// DefaultDevice is the topic token used when a session id carries no device
// prefix.
const DefaultDevice = "default"

// Publisher is the outbound device-message boundary. Delivery is
// fire-and-forget; no confirmation is surfaced to the caller.
type Publisher interface {
	Publish(ctx context.Context, topic string, message any) error
}

// IoT publishes JSON payloads to AWS IoT Core at QoS 1.
type IoT struct {
	client *iotdataplane.Client
	logger *slog.Logger
}

// NewIoT creates an IoT Core publisher from an AWS config.
func NewIoT(awsCfg aws.Config, logger *slog.Logger) *IoT {
	return &IoT{
		client: iotdataplane.NewFromConfig(awsCfg),
		logger: logger,
	}
}

// Publish marshals the message and publishes it on the topic.
func (p *IoT) Publish(ctx context.Context, topic string, message any) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal device message: %w", err)
	}

	_, err = p.client.Publish(ctx, &iotdataplane.PublishInput{
		Topic:   aws.String(topic),
		Qos:     1,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	p.logger.Debug("published device message", "topic", topic, "payload_size", len(payload))
	return nil
}

// DeviceID derives the device name from a session id: everything before the
// first "-", or "default" when the session id has no such prefix.
func DeviceID(sessionID string) string {
	name, _, found := strings.Cut(sessionID, "-")
	if !found || name == "" {
		return DefaultDevice
	}
	return name
}

// Topic builds the per-device topic, e.g. "pupper/ngl".
func Topic(prefix, sessionID string) string {
	return prefix + "/" + DeviceID(sessionID)
}
