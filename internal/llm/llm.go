// Package llm abstracts over the supported language-model providers so the
// coaching layer never depends on a specific vendor SDK.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/PULSECOACH/pulsecoach/internal/inference"
	"github.com/PULSECOACH/pulsecoach/internal/models"
)

// Provider identifiers accepted in configuration.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Request is a single prompt sent to a provider. History carries prior
// conversation turns, oldest first, placed between the system prompt and the
// user prompt.
type Request struct {
	SystemPrompt string
	History      []models.ChatMessage
	UserPrompt   string
	Temperature  float32
	MaxTokens    int

	// Operation names the calling feature for the inference audit log.
	Operation string
}

// Completion is a provider response.
type Completion struct {
	Text       string
	Model      string
	TokensUsed int
}

// Completer generates a completion for a prompt. Implementations handle
// their own timeouts and retry policy; an error return means the call failed
// after all retries.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// Config holds provider selection and API settings.
type Config struct {
	Provider   string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// ConfigFromEnv reads provider configuration from environment variables with
// defaults suitable for production.
func ConfigFromEnv() Config {
	config := Config{
		Provider:   "openai",
		Model:      "gpt-4o",
		Timeout:    60 * time.Second,
		MaxRetries: 3,
	}

	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		config.Provider = provider
	}
	if model := os.Getenv("LLM_MODEL"); model != "" {
		config.Model = model
	}
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		config.APIKey = key
	} else if config.Provider == ProviderAnthropic {
		config.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	} else {
		config.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if timeoutStr := os.Getenv("LLM_TIMEOUT_SECONDS"); timeoutStr != "" {
		if seconds, err := strconv.Atoi(timeoutStr); err == nil && seconds > 0 {
			config.Timeout = time.Duration(seconds) * time.Second
		}
	}
	if retriesStr := os.Getenv("LLM_MAX_RETRIES"); retriesStr != "" {
		if retries, err := strconv.Atoi(retriesStr); err == nil && retries > 0 {
			config.MaxRetries = retries
		}
	}

	return config
}

// New creates the configured provider client.
func New(config Config, inferenceLogger *inference.Logger, logger *slog.Logger) (Completer, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("llm api key not configured")
	}
	if logger == nil {
		logger = slog.Default()
	}

	switch config.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(config, inferenceLogger, logger), nil
	case ProviderAnthropic:
		return NewAnthropicClient(config, inferenceLogger, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", config.Provider)
	}
}
