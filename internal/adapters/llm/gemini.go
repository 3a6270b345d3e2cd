package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"notesplit/internal/application"
)

// GeminiOracle implements ports.StreamingOracle with the Gemini API
type GeminiOracle struct {
	client    *genai.Client
	model     string
	maxTokens int32
	initErr   error
}

// NewGeminiOracle creates a new Gemini oracle. An empty baseURL uses the
// public endpoint. A client that fails to initialize is reported on the
// first call.
func NewGeminiOracle(apiKey, baseURL, model string, maxTokens int) *GeminiOracle {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		err = fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &GeminiOracle{
		client:    client,
		model:     model,
		maxTokens: int32(maxTokens),
		initErr:   err,
	}
}

// Name returns the backend name
func (o *GeminiOracle) Name() string {
	return "gemini"
}

// Classify sends prompt and returns the response text
func (o *GeminiOracle) Classify(ctx context.Context, prompt string, temperature float64) (string, error) {
	if o.initErr != nil {
		return "", &application.TransportError{Backend: o.Name(), Err: o.initErr}
	}

	response, err := o.client.Models.GenerateContent(ctx, o.model, genai.Text(prompt), o.config(temperature))
	if err != nil {
		return "", &application.TransportError{Backend: o.Name(), Err: err}
	}

	text := response.Text()
	if strings.TrimSpace(text) == "" {
		return "", &application.MalformedResponse{Backend: o.Name(), Reason: "empty response"}
	}
	return text, nil
}

// Stream sends prompt and delivers the response as it is generated. chunks
// is closed when Stream returns.
func (o *GeminiOracle) Stream(ctx context.Context, prompt string, temperature float64, chunks chan<- string) error {
	defer close(chunks)
	if o.initErr != nil {
		return &application.TransportError{Backend: o.Name(), Err: o.initErr}
	}

	for response, err := range o.client.Models.GenerateContentStream(ctx, o.model, genai.Text(prompt), o.config(temperature)) {
		if err != nil {
			return &application.TransportError{Backend: o.Name(), Err: err}
		}
		text := response.Text()
		if text == "" {
			continue
		}
		select {
		case chunks <- text:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (o *GeminiOracle) config(temperature float64) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(temperature)),
		MaxOutputTokens: o.maxTokens,
	}
}
