// Package inference records every language-model API call for auditing
// token spend and latency.
package inference

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/PULSECOACH/pulsecoach/internal/models"
)

// Store persists inference audit records.
type Store interface {
	Create(ctx context.Context, log models.InferenceLog) error
}

// Logger writes inference audit records asynchronously so API handlers never
// block on audit persistence.
type Logger struct {
	store  Store
	logger *slog.Logger
}

// NewLogger creates a new inference logger.
func NewLogger(store Store, logger *slog.Logger) *Logger {
	return &Logger{
		store:  store,
		logger: logger,
	}
}

// LogCallParams describes one inference API call.
type LogCallParams struct {
	Provider     string
	Model        string
	Operation    string
	TokensUsed   int
	InputTokens  *int
	OutputTokens *int
	CostUSD      *float64
	LatencyMs    *int
	Status       string // "success" or "error"
	ErrorMessage *string
	Metadata     map[string]interface{}
}

// LogCall persists an inference call record in the background.
func (l *Logger) LogCall(ctx context.Context, params LogCallParams) {
	var metadataJSON string
	if params.Metadata != nil {
		if jsonBytes, err := json.Marshal(params.Metadata); err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	record := models.InferenceLog{
		Provider:     params.Provider,
		Model:        params.Model,
		Operation:    params.Operation,
		TokensUsed:   params.TokensUsed,
		InputTokens:  params.InputTokens,
		OutputTokens: params.OutputTokens,
		CostUSD:      params.CostUSD,
		LatencyMs:    params.LatencyMs,
		Status:       params.Status,
		ErrorMessage: params.ErrorMessage,
		Metadata:     metadataJSON,
	}

	go func() {
		bgCtx := context.Background()
		if err := l.store.Create(bgCtx, record); err != nil {
			l.logger.Error("failed to log inference call", "error", err)
		}
	}()
}

// LogOpenAICall is a helper for OpenAI API calls.
func (l *Logger) LogOpenAICall(ctx context.Context, model, operation string, usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}, latency time.Duration, err error, metadata map[string]interface{}) {
	params := LogCallParams{
		Provider:     "openai",
		Model:        model,
		Operation:    operation,
		TokensUsed:   usage.TotalTokens,
		InputTokens:  &usage.PromptTokens,
		OutputTokens: &usage.CompletionTokens,
		Metadata:     metadata,
	}

	latencyMs := int(latency.Milliseconds())
	params.LatencyMs = &latencyMs

	if err != nil {
		params.Status = "error"
		errMsg := err.Error()
		params.ErrorMessage = &errMsg
	} else {
		params.Status = "success"
	}

	cost := estimateOpenAICost(model, usage.PromptTokens, usage.CompletionTokens)
	params.CostUSD = &cost

	l.LogCall(ctx, params)
}

// LogAnthropicCall is a helper for Anthropic API calls.
func (l *Logger) LogAnthropicCall(ctx context.Context, model, operation string, usage struct {
	InputTokens  int
	OutputTokens int
}, latency time.Duration, err error, metadata map[string]interface{}) {
	totalTokens := usage.InputTokens + usage.OutputTokens
	params := LogCallParams{
		Provider:     "anthropic",
		Model:        model,
		Operation:    operation,
		TokensUsed:   totalTokens,
		InputTokens:  &usage.InputTokens,
		OutputTokens: &usage.OutputTokens,
		Metadata:     metadata,
	}

	latencyMs := int(latency.Milliseconds())
	params.LatencyMs = &latencyMs

	if err != nil {
		params.Status = "error"
		errMsg := err.Error()
		params.ErrorMessage = &errMsg
	} else {
		params.Status = "success"
	}

	cost := estimateAnthropicCost(model, usage.InputTokens, usage.OutputTokens)
	params.CostUSD = &cost

	l.LogCall(ctx, params)
}

// estimateOpenAICost provides rough cost estimates per published pricing.
func estimateOpenAICost(model string, inputTokens, outputTokens int) float64 {
	var inputCostPer1M, outputCostPer1M float64

	switch model {
	case "gpt-4o":
		inputCostPer1M = 2.50
		outputCostPer1M = 10.00
	case "gpt-4o-mini":
		inputCostPer1M = 0.15
		outputCostPer1M = 0.60
	case "gpt-4-turbo", "gpt-4-turbo-preview":
		inputCostPer1M = 10.00
		outputCostPer1M = 30.00
	case "gpt-3.5-turbo":
		inputCostPer1M = 0.50
		outputCostPer1M = 1.50
	default:
		inputCostPer1M = 5.00
		outputCostPer1M = 15.00
	}

	inputCost := (float64(inputTokens) / 1_000_000) * inputCostPer1M
	outputCost := (float64(outputTokens) / 1_000_000) * outputCostPer1M

	return inputCost + outputCost
}

// estimateAnthropicCost provides rough cost estimates per published pricing.
func estimateAnthropicCost(model string, inputTokens, outputTokens int) float64 {
	var inputCostPer1M, outputCostPer1M float64

	switch model {
	case "claude-sonnet-4-20250514", "claude-3-5-sonnet-20240620":
		inputCostPer1M = 3.00
		outputCostPer1M = 15.00
	case "claude-3-opus-20240229":
		inputCostPer1M = 15.00
		outputCostPer1M = 75.00
	case "claude-3-haiku-20240307":
		inputCostPer1M = 0.25
		outputCostPer1M = 1.25
	default:
		inputCostPer1M = 3.00
		outputCostPer1M = 15.00
	}

	inputCost := (float64(inputTokens) / 1_000_000) * inputCostPer1M
	outputCost := (float64(outputTokens) / 1_000_000) * outputCostPer1M

	return inputCost + outputCost
}
