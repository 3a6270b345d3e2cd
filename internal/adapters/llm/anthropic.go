package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"notesplit/internal/application"
)

// AnthropicOracle implements ports.StreamingOracle with the Messages API
type AnthropicOracle struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicOracle creates a new Anthropic oracle. Extra options are
// passed to the client, e.g. option.WithBaseURL in tests.
func NewAnthropicOracle(apiKey, model string, maxTokens int, opts ...option.RequestOption) *AnthropicOracle {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicOracle{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: int64(maxTokens),
	}
}

// Name returns the backend name
func (o *AnthropicOracle) Name() string {
	return "anthropic"
}

// Classify sends prompt as a single user message and returns the text blocks
func (o *AnthropicOracle) Classify(ctx context.Context, prompt string, temperature float64) (string, error) {
	message, err := o.client.Messages.New(ctx, o.params(prompt, temperature))
	if err != nil {
		return "", &application.TransportError{Backend: o.Name(), Err: err}
	}

	var sb strings.Builder
	for _, block := range message.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			sb.WriteString(variant.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", &application.MalformedResponse{Backend: o.Name(), Reason: "no text in response"}
	}
	return sb.String(), nil
}

// Stream sends prompt and delivers text deltas. chunks is closed when
// Stream returns.
func (o *AnthropicOracle) Stream(ctx context.Context, prompt string, temperature float64, chunks chan<- string) error {
	defer close(chunks)

	stream := o.client.Messages.NewStreaming(ctx, o.params(prompt, temperature))
	defer stream.Close()

	for stream.Next() {
		event := stream.Current()
		delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
		if !ok {
			continue
		}
		text, ok := delta.Delta.AsAny().(anthropic.TextDelta)
		if !ok || text.Text == "" {
			continue
		}
		select {
		case chunks <- text.Text:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := stream.Err(); err != nil {
		return &application.TransportError{Backend: o.Name(), Err: err}
	}
	return nil
}

func (o *AnthropicOracle) params(prompt string, temperature float64) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:       anthropic.Model(o.model),
		MaxTokens:   o.maxTokens,
		Temperature: anthropic.Float(temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
}
