package llm

import (
	"fmt"
	"os"

	"notesplit/internal/adapters/claudecli"
	"notesplit/internal/config"
	"notesplit/internal/ports"
)

// EnvVar returns the environment variable holding the API key for provider
func EnvVar(provider string) string {
	switch provider {
	case "groq":
		return "GROQ_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "gemini":
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// New builds the oracle selected by cfg, reading its API key from the
// environment. A configured timeout bounds each call.
func New(cfg *config.Config) (ports.Oracle, error) {
	timeout, err := cfg.OracleTimeout()
	if err != nil {
		return nil, err
	}
	oracle, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}
	return WithTimeout(oracle, timeout), nil
}

func newBackend(cfg *config.Config) (ports.Oracle, error) {
	provider := cfg.Provider()
	model := cfg.Model()
	maxTokens := cfg.LLM.MaxTokens
	if maxTokens <= 0 {
		maxTokens = config.DefaultMaxTokens
	}

	if provider == "claude-cli" {
		oracle := claudecli.NewOracle(claudecli.WithModel(model))
		if !oracle.IsAvailable() {
			return nil, fmt.Errorf("claude CLI not found in PATH")
		}
		return oracle, nil
	}

	envVar := EnvVar(provider)
	if envVar == "" {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
	apiKey := os.Getenv(envVar)
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key not found: set %s", provider, envVar)
	}

	switch provider {
	case "groq":
		baseURL := cfg.LLM.BaseURL
		if baseURL == "" {
			baseURL = GroqBaseURL
		}
		return NewOpenAIOracle("groq", apiKey, baseURL, model, maxTokens), nil
	case "openai":
		return NewOpenAIOracle("openai", apiKey, cfg.LLM.BaseURL, model, maxTokens), nil
	case "anthropic":
		return NewAnthropicOracle(apiKey, model, maxTokens), nil
	default:
		return NewGeminiOracle(apiKey, cfg.LLM.BaseURL, model, maxTokens), nil
	}
}
