package llm

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/PULSECOACH/pulsecoach/internal/inference"
)

// OpenAIClient generates completions through the OpenAI chat API.
type OpenAIClient struct {
	client          *openai.Client
	config          Config
	logger          *slog.Logger
	inferenceLogger *inference.Logger
}

// NewOpenAIClient creates an OpenAI-backed completer.
func NewOpenAIClient(config Config, inferenceLogger *inference.Logger, logger *slog.Logger) *OpenAIClient {
	return &OpenAIClient{
		client:          openai.NewClient(config.APIKey),
		config:          config,
		logger:          logger,
		inferenceLogger: inferenceLogger,
	}
}

// Complete sends the prompt and retries rate-limited calls with exponential
// backoff and jitter. Each attempt runs under the configured timeout.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	maxRetries := c.config.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	baseDelay := 1 * time.Second

	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: req.SystemPrompt,
	})
	for _, turn := range req.History {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserPrompt,
	})

	request := openai.ChatCompletionRequest{
		Model:               c.config.Model,
		Temperature:         req.Temperature,
		MaxCompletionTokens: req.MaxTokens,
		Messages:            messages,
	}

	var resp openai.ChatCompletionResponse
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		apiCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
		apiCallStart := time.Now()

		resp, err = c.client.CreateChatCompletion(apiCtx, request)

		cancel()
		apiCallDuration := time.Since(apiCallStart)

		if c.inferenceLogger != nil {
			usage := struct {
				PromptTokens     int
				CompletionTokens int
				TotalTokens      int
			}{}
			metadata := map[string]interface{}{
				"attempt": attempt + 1,
			}
			if err == nil {
				usage.PromptTokens = resp.Usage.PromptTokens
				usage.CompletionTokens = resp.Usage.CompletionTokens
				usage.TotalTokens = resp.Usage.TotalTokens
			} else if isRateLimited(err) {
				metadata["is_rate_limit"] = true
			}
			c.inferenceLogger.LogOpenAICall(ctx, c.config.Model, req.Operation, usage, apiCallDuration, err, metadata)
		}

		if err == nil {
			break
		}

		if isRateLimited(err) && attempt < maxRetries-1 {
			delay := baseDelay * time.Duration(1<<uint(attempt))
			delay += time.Duration(rand.Intn(500)) * time.Millisecond

			c.logger.Warn("rate limited, retrying with backoff",
				"operation", req.Operation,
				"attempt", attempt+1,
				"delay_ms", delay.Milliseconds(),
				"max_retries", maxRetries)
			time.Sleep(delay)
			continue
		}

		break
	}

	if err != nil {
		return nil, fmt.Errorf("openai api call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no completion choices returned from model %s", c.config.Model)
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		return nil, fmt.Errorf("empty response from model %s (finish_reason: %s)", c.config.Model, resp.Choices[0].FinishReason)
	}

	return &Completion{
		Text:       text,
		Model:      c.config.Model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// isRateLimited matches the 429 responses the OpenAI SDK surfaces as
// formatted error strings.
func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "Too Many Requests") ||
		strings.Contains(errStr, "Rate limit")
}
