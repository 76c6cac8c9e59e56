// Package dispatch routes one inbound platform event to its handler: device
// commands straight to the bus, conversational turns through the language
// model, and everything else to an explicit "didn't understand" reply. All
// failures past event decoding degrade to a well-formed envelope; nothing
// escapes to the invocation boundary except an undecodable event.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/raphaelgruber/pupper-bridge/internal/devicebus"
	"github.com/raphaelgruber/pupper-bridge/internal/history"
	"github.com/raphaelgruber/pupper-bridge/internal/lex"
	"github.com/raphaelgruber/pupper-bridge/internal/llm"
	"github.com/raphaelgruber/pupper-bridge/internal/metrics"
	"github.com/raphaelgruber/pupper-bridge/internal/qnabot"
	"github.com/raphaelgruber/pupper-bridge/internal/reply"
)

// FallbackIntent is the Lex intent name that routes to the language model.
const FallbackIntent = "FallbackIntent"

const (
	// commandContent is the canned user-facing message for device commands.
	commandContent = "Move it!"

	// unhandledContent answers intents this bridge has no handler for.
	unhandledContent = "Sorry, I didn't understand that."

	// primeContent is placed on the QnABot response before dispatch; the
	// conversational reply overwrites it on success.
	primeContent = "Hi! This is your Custom Go Hook speaking!"
)

// Dispatcher handles one platform event per call. All collaborators are
// injected; the zero value is not usable.
type Dispatcher struct {
	llm         llm.Generator
	bus         devicebus.Publisher
	topicPrefix string
	logger      *slog.Logger
	metrics     *metrics.Collector
}

// New creates a Dispatcher with its collaborators.
func New(gen llm.Generator, bus devicebus.Publisher, topicPrefix string, logger *slog.Logger, collector *metrics.Collector) *Dispatcher {
	return &Dispatcher{
		llm:         gen,
		bus:         bus,
		topicPrefix: topicPrefix,
		logger:      logger,
		metrics:     collector,
	}
}

// Handle classifies the raw event by shape and dispatches it. Events with a
// top-level sessionState are Lex fulfillment events; everything else is a
// QnABot hook event. The returned value is always a well-formed envelope for
// the detected platform; only an undecodable event yields an error.
func (d *Dispatcher) Handle(ctx context.Context, raw json.RawMessage) (any, error) {
	start := time.Now()

	var probe struct {
		SessionState *json.RawMessage `json:"sessionState"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		d.metrics.RecordTiming(metrics.OpTurn, time.Since(start), true)
		return nil, fmt.Errorf("decode event: %w", err)
	}

	if probe.SessionState != nil {
		var event lex.Event
		if err := json.Unmarshal(raw, &event); err != nil {
			d.metrics.RecordTiming(metrics.OpTurn, time.Since(start), true)
			return nil, fmt.Errorf("decode lex event: %w", err)
		}
		env := d.HandleLex(ctx, &event)
		d.metrics.RecordTiming(metrics.OpTurn, time.Since(start), false)
		return env, nil
	}

	var event qnabot.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		d.metrics.RecordTiming(metrics.OpTurn, time.Since(start), true)
		return nil, fmt.Errorf("decode qnabot event: %w", err)
	}
	env := d.HandleQnA(ctx, &event)
	d.metrics.RecordTiming(metrics.OpTurn, time.Since(start), false)
	return env, nil
}

// HandleLex dispatches a Lex fulfillment event: device-command intents go
// straight to the bus, the fallback intent converses with the model, and
// unrecognized intents get the explicit unhandled reply.
func (d *Dispatcher) HandleLex(ctx context.Context, event *lex.Event) lex.Envelope {
	start := time.Now()
	name := event.IntentName()

	if cmd, ok := devicebus.CommandForIntent(name); ok {
		env := d.deviceAction(ctx, event, cmd)
		d.logTurn("lex_command", start, nil, "intent", name, "session_id", event.SessionID)
		return env
	}

	if name == FallbackIntent {
		env, err := d.converse(ctx, event)
		d.logTurn("lex_converse", start, err, "session_id", event.SessionID,
			"input", truncate(event.InputTranscript, maxLogLen))
		if err != nil {
			return d.failureEnvelope(event)
		}
		return env
	}

	d.logger.Warn("unhandled intent", "intent", name, "session_id", event.SessionID)
	return lex.Close(event, event.SessionAttributes(), lex.StateFailed, lex.PlainText(unhandledContent))
}

// deviceAction publishes the command's message and answers with the canned
// envelope. Delivery is fire-and-forget; a failed publish is logged, not
// surfaced.
func (d *Dispatcher) deviceAction(ctx context.Context, event *lex.Event, cmd devicebus.Command) lex.Envelope {
	msg, _ := devicebus.Route(cmd)
	d.publish(ctx, event.SessionID, msg)
	return lex.Close(event, event.SessionAttributes(), lex.StateFulfilled, lex.PlainText(commandContent))
}

// converse runs the decode/generate/parse/encode pipeline for one Lex turn.
func (d *Dispatcher) converse(ctx context.Context, event *lex.Event) (lex.Envelope, error) {
	input, rawContext, err := lex.ExtractTurnInput(event)
	if err != nil {
		return lex.Envelope{}, err
	}

	transcript, err := history.DecodeBlob(rawContext)
	if err != nil {
		return lex.Envelope{}, err
	}

	output, err := d.generate(ctx, llm.LexTemplate, transcript.ChatHistory, input)
	if err != nil {
		return lex.Envelope{}, err
	}

	parsed, ok := reply.Parse(output)
	if ok {
		// Only structured replies are forwarded to the device.
		d.publish(ctx, event.SessionID, parsed)
	}

	encoded, err := transcript.Append(input, output).Encode()
	if err != nil {
		return lex.Envelope{}, err
	}

	attrs := event.SessionAttributes()
	attrs[lex.ContextKey] = encoded

	return lex.Close(event, attrs, lex.StateFulfilled, lex.PlainText(parsed.Speak)), nil
}

// HandleQnA runs the decode/generate/encode pipeline for one QnABot turn.
// Replies on this path are plain text and never forwarded to the device.
func (d *Dispatcher) HandleQnA(ctx context.Context, event *qnabot.Event) qnabot.Event {
	start := time.Now()
	qnabot.PrimeMessage(event, primeContent)

	env, err := d.qnaTurn(ctx, event)
	d.logTurn("qnabot_converse", start, err)
	if err != nil {
		return qnabot.FailureEnvelope(event, reply.FallbackSpeak)
	}
	return env
}

func (d *Dispatcher) qnaTurn(ctx context.Context, event *qnabot.Event) (qnabot.Event, error) {
	input, rawContext, err := qnabot.ExtractTurnInput(event)
	if err != nil {
		return qnabot.Event{}, err
	}

	record, err := history.DecodeRecord(rawContext, input)
	if err != nil {
		return qnabot.Event{}, err
	}

	output, err := d.generate(ctx, llm.QnATemplate, record.EncodeHistory(), input)
	if err != nil {
		return qnabot.Event{}, err
	}

	return qnabot.BuildEnvelope(event, record.Append(input, output), output)
}

// generate calls the language model and records timing.
func (d *Dispatcher) generate(ctx context.Context, template, chatHistory, input string) (string, error) {
	start := time.Now()
	output, err := d.llm.Converse(ctx, template, chatHistory, input)
	d.metrics.RecordTiming(metrics.OpLLMGenerate, time.Since(start), err != nil)
	if err != nil {
		return "", fmt.Errorf("language model: %w", err)
	}
	return output, nil
}

// publish sends a message to the session's device topic. The bus contract is
// fire-and-forget, so failures are logged and counted but never surfaced.
func (d *Dispatcher) publish(ctx context.Context, sessionID string, message any) {
	topic := devicebus.Topic(d.topicPrefix, sessionID)
	start := time.Now()
	err := d.bus.Publish(ctx, topic, message)
	d.metrics.RecordTiming(metrics.OpDevicePublish, time.Since(start), err != nil)
	if err != nil {
		d.logger.Error("device publish failed", "topic", topic, "error", err)
	}
}

// failureEnvelope is the Lex-side error boundary: a Close envelope carrying
// the canned degraded reply, session attributes untouched.
func (d *Dispatcher) failureEnvelope(event *lex.Event) lex.Envelope {
	return lex.Close(event, event.SessionAttributes(), lex.StateFailed, lex.PlainText(reply.FallbackSpeak))
}
