package llm

import (
	"context"
	"errors"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"notesplit/internal/application"
)

// GroqBaseURL is the OpenAI-compatible endpoint of Groq
const GroqBaseURL = "https://api.groq.com/openai/v1"

// OpenAIOracle implements ports.StreamingOracle against any OpenAI-compatible
// chat completions endpoint (OpenAI itself, Groq, local gateways)
type OpenAIOracle struct {
	client    *openai.Client
	name      string
	model     string
	maxTokens int
}

// NewOpenAIOracle creates an oracle for the endpoint at baseURL. An empty
// baseURL talks to OpenAI.
func NewOpenAIOracle(name, apiKey, baseURL, model string, maxTokens int) *OpenAIOracle {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIOracle{
		client:    openai.NewClientWithConfig(config),
		name:      name,
		model:     model,
		maxTokens: maxTokens,
	}
}

// Name returns the backend name
func (o *OpenAIOracle) Name() string {
	return o.name
}

// Classify sends prompt as a single user message and returns the reply
func (o *OpenAIOracle) Classify(ctx context.Context, prompt string, temperature float64) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, o.request(prompt, temperature, false))
	if err != nil {
		return "", &application.TransportError{Backend: o.name, Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &application.MalformedResponse{Backend: o.name, Reason: "no choices in response"}
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", &application.MalformedResponse{Backend: o.name, Reason: "empty completion", Raw: content}
	}
	return content, nil
}

// Stream sends prompt and delivers the reply in chunks. chunks is closed
// when Stream returns.
func (o *OpenAIOracle) Stream(ctx context.Context, prompt string, temperature float64, chunks chan<- string) error {
	defer close(chunks)

	stream, err := o.client.CreateChatCompletionStream(ctx, o.request(prompt, temperature, true))
	if err != nil {
		return &application.TransportError{Backend: o.name, Err: err}
	}
	defer stream.Close()

	received := false
	for {
		response, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			if !received {
				return &application.MalformedResponse{Backend: o.name, Reason: "empty stream"}
			}
			return nil
		}
		if err != nil {
			return &application.TransportError{Backend: o.name, Err: err}
		}

		if len(response.Choices) == 0 {
			continue
		}
		content := response.Choices[0].Delta.Content
		if content == "" {
			continue
		}
		received = true
		select {
		case chunks <- content:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (o *OpenAIOracle) request(prompt string, temperature float64, stream bool) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   o.maxTokens,
		Temperature: float32(temperature),
		Stream:      stream,
	}
}
