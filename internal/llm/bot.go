// Package llm wraps the hosted language model behind a small conversational
// interface. Production traffic goes to Bedrock through langchaingo; tests
// inject fakes.
package llm

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/bedrock"
	"github.com/tmc/langchaingo/prompts"

	"github.com/raphaelgruber/pupper-bridge/internal/config"
)

// Generator is the language-model boundary: format the template with the
// prior transcript and the user utterance, return one text completion.
// Synchronous, no streaming.
type Generator interface {
	Converse(ctx context.Context, template, chatHistory, input string) (string, error)
}

// Bot wraps a langchaingo model for per-turn conversation.
type Bot struct {
	llm         llms.Model
	modelName   string
	temperature float64
}

// NewBedrock creates a Bot backed by the Bedrock runtime.
func NewBedrock(awsCfg aws.Config, cfg config.Config) (*Bot, error) {
	client := bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
		if cfg.BedrockEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BedrockEndpoint)
		}
	})

	model, err := bedrock.New(
		bedrock.WithClient(client),
		bedrock.WithModel(cfg.BedrockModelID),
	)
	if err != nil {
		return nil, fmt.Errorf("create bedrock model: %w", err)
	}

	return &Bot{
		llm:         model,
		modelName:   cfg.BedrockModelID,
		temperature: cfg.Temperature,
	}, nil
}

// NewWithModel creates a Bot around an existing model (for testing).
func NewWithModel(model llms.Model, temperature float64) *Bot {
	return &Bot{llm: model, temperature: temperature}
}

// Converse formats the prompt template with the transcript and utterance and
// returns the model's completion.
func (b *Bot) Converse(ctx context.Context, template, chatHistory, input string) (string, error) {
	prompt, err := FormatPrompt(template, chatHistory, input)
	if err != nil {
		return "", err
	}

	response, err := llms.GenerateFromSinglePrompt(ctx, b.llm, prompt,
		llms.WithTemperature(b.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return response, nil
}

// Model returns the LLM model name.
func (b *Bot) Model() string {
	return b.modelName
}

// FormatPrompt fills a {chat_history}/{input} template. The templates are
// f-string style ({var} placeholders, {{ }} brace escapes), so the format
// must be set explicitly; the langchaingo default is Go text/template, which
// cannot parse the escaped JSON braces.
func FormatPrompt(template, chatHistory, input string) (string, error) {
	tmpl := prompts.PromptTemplate{
		Template:       template,
		InputVariables: []string{"chat_history", "input"},
		TemplateFormat: prompts.TemplateFormatFString,
	}
	prompt, err := tmpl.Format(map[string]any{
		"chat_history": chatHistory,
		"input":        input,
	})
	if err != nil {
		return "", fmt.Errorf("format prompt: %w", err)
	}
	return prompt, nil
}
