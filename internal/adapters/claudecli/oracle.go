package claudecli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"notesplit/internal/application"
)

const backendName = "claude-cli"

// Oracle implements ports.Oracle using Claude Code CLI
type Oracle struct {
	model  string
	binary string
	run    func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// Option configures the Oracle
type Option func(*Oracle)

// WithModel sets the Claude model to use
func WithModel(model string) Option {
	return func(o *Oracle) {
		o.model = model
	}
}

// WithBinary sets the claude executable to call
func WithBinary(binary string) Option {
	return func(o *Oracle) {
		o.binary = binary
	}
}

// NewOracle creates a new Claude CLI oracle
func NewOracle(opts ...Option) *Oracle {
	o := &Oracle{
		model:  "haiku", // Default to haiku for speed
		binary: "claude",
		run:    runCommand,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// claudeResponse represents the JSON output from claude CLI
type claudeResponse struct {
	Type         string  `json:"type"`
	Subtype      string  `json:"subtype"`
	DurationMS   int     `json:"duration_ms"`
	IsError      bool    `json:"is_error"`
	NumTurns     int     `json:"num_turns"`
	Result       string  `json:"result"`
	SessionID    string  `json:"session_id"`
	TotalCostUSD float64 `json:"total_cost_usd"`
}

// Name returns the backend name
func (o *Oracle) Name() string {
	return backendName
}

// Classify runs the prompt through claude in print mode. The CLI has no
// temperature setting, so temperature is ignored.
func (o *Oracle) Classify(ctx context.Context, prompt string, _ float64) (string, error) {
	args := []string{
		"-p", prompt,
		"--output-format", "json",
		"--model", o.model,
	}

	output, err := o.run(ctx, o.binary, args...)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			err = fmt.Errorf("claude CLI error: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", &application.TransportError{Backend: backendName, Err: err}
	}

	return parseResponse(output)
}

// parseResponse extracts the result text from the CLI's JSON envelope
func parseResponse(output []byte) (string, error) {
	var response claudeResponse
	if err := json.Unmarshal(output, &response); err != nil {
		return "", &application.MalformedResponse{
			Backend: backendName,
			Reason:  fmt.Sprintf("failed to parse claude response: %v", err),
			Raw:     string(output),
		}
	}

	if response.IsError {
		return "", &application.TransportError{Backend: backendName, Err: fmt.Errorf("claude returned an error: %s", response.Result)}
	}
	if strings.TrimSpace(response.Result) == "" {
		return "", &application.MalformedResponse{Backend: backendName, Reason: "empty result", Raw: string(output)}
	}

	return response.Result, nil
}

// IsAvailable checks if the claude CLI is installed and accessible
func (o *Oracle) IsAvailable() bool {
	_, err := exec.LookPath(o.binary)
	return err == nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
