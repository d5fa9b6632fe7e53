package llm

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/PULSECOACH/pulsecoach/internal/inference"
	"github.com/PULSECOACH/pulsecoach/internal/models"
)

// AnthropicClient generates completions through the Anthropic messages API.
type AnthropicClient struct {
	client          anthropic.Client
	config          Config
	logger          *slog.Logger
	inferenceLogger *inference.Logger
}

// NewAnthropicClient creates an Anthropic-backed completer.
func NewAnthropicClient(config Config, inferenceLogger *inference.Logger, logger *slog.Logger) *AnthropicClient {
	return &AnthropicClient{
		client:          anthropic.NewClient(option.WithAPIKey(config.APIKey)),
		config:          config,
		logger:          logger,
		inferenceLogger: inferenceLogger,
	}
}

// Complete sends the prompt with the same retry policy as the OpenAI client.
func (c *AnthropicClient) Complete(ctx context.Context, req Request) (*Completion, error) {
	maxRetries := c.config.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	baseDelay := 1 * time.Second

	messages := make([]anthropic.MessageParam, 0, len(req.History)+1)
	for _, turn := range req.History {
		if turn.Role == models.RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.Content)))
		} else {
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Content)))
		}
	}
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)))

	request := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.config.Model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(float64(req.Temperature)),
		System: []anthropic.TextBlockParam{
			{Text: req.SystemPrompt},
		},
		Messages: messages,
	}

	var resp *anthropic.Message
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		apiCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
		apiCallStart := time.Now()

		resp, err = c.client.Messages.New(apiCtx, request)

		cancel()
		apiCallDuration := time.Since(apiCallStart)

		if c.inferenceLogger != nil {
			usage := struct {
				InputTokens  int
				OutputTokens int
			}{}
			if err == nil {
				usage.InputTokens = int(resp.Usage.InputTokens)
				usage.OutputTokens = int(resp.Usage.OutputTokens)
			}
			c.inferenceLogger.LogAnthropicCall(ctx, c.config.Model, req.Operation, usage, apiCallDuration, err, map[string]interface{}{
				"attempt": attempt + 1,
			})
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
		return nil, fmt.Errorf("anthropic api call failed: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("no response content from model %s", c.config.Model)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, fmt.Errorf("no text content in response from model %s", c.config.Model)
	}

	return &Completion{
		Text:       text,
		Model:      c.config.Model,
		TokensUsed: int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
	}, nil
}
