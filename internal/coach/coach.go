// Package coach turns monthly summaries into narrative coaching feedback and
// answers ad-hoc questions grounded in the user's data.
package coach

import (
	"context"
	"log/slog"

	"github.com/PULSECOACH/pulsecoach/internal/llm"
	"github.com/PULSECOACH/pulsecoach/internal/models"
)

const (
	analysisTemperature = 0.7
	analysisMaxTokens   = 1500
	chatMaxTokens       = 500
)

// Coach generates coaching output through a language-model provider. Provider
// faults are converted to error-status results, never returned as errors, so
// callers can hand the result straight back to the client.
type Coach struct {
	llm    llm.Completer
	logger *slog.Logger
}

// New creates a coach on top of the given provider.
func New(completer llm.Completer, logger *slog.Logger) *Coach {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coach{
		llm:    completer,
		logger: logger,
	}
}

// GenerateGeneralAnalysis produces the monthly narrative review.
// previousAnalyses must be in chronological order, oldest first.
func (c *Coach) GenerateGeneralAnalysis(ctx context.Context, profile models.CoachingProfile, summary *models.MonthlySummary, previousAnalyses []string) models.AnalysisResult {
	prompt := buildAnalysisPrompt(profile, summary, previousAnalyses)

	completion, err := c.llm.Complete(ctx, llm.Request{
		SystemPrompt: analysisSystemPrompt,
		UserPrompt:   prompt,
		Temperature:  analysisTemperature,
		MaxTokens:    analysisMaxTokens,
		Operation:    "monthly_analysis",
	})
	if err != nil {
		c.logger.Error("analysis generation failed",
			"user_id", summary.UserID,
			"period", summary.AnalysisPeriod,
			"error", err)
		return models.AnalysisResult{
			Status: models.StatusError,
			Error:  err.Error(),
		}
	}

	c.logger.Info("generated monthly analysis",
		"user_id", summary.UserID,
		"period", summary.AnalysisPeriod,
		"model", completion.Model,
		"tokens_used", completion.TokensUsed,
		"previous_count", len(previousAnalyses))

	return models.AnalysisResult{
		Status:      models.StatusSuccess,
		Analysis:    completion.Text,
		Model:       completion.Model,
		TokensUsed:  completion.TokensUsed,
		SummaryData: summary,
	}
}

// Chat answers one user message with the monthly summary as context. The
// returned history is the input history plus the new user and assistant
// turns; the caller's slice is never mutated.
func (c *Coach) Chat(ctx context.Context, profile models.CoachingProfile, userMessage string, summary *models.MonthlySummary, history []models.ChatMessage) models.ChatResult {
	completion, err := c.llm.Complete(ctx, llm.Request{
		SystemPrompt: buildChatSystemPrompt(profile, summary),
		History:      history,
		UserPrompt:   userMessage,
		Temperature:  analysisTemperature,
		MaxTokens:    chatMaxTokens,
		Operation:    "chat",
	})
	if err != nil {
		c.logger.Error("chat completion failed",
			"user_id", summary.UserID,
			"error", err)
		return models.ChatResult{
			Status: models.StatusError,
			Error:  err.Error(),
		}
	}

	updated := make([]models.ChatMessage, 0, len(history)+2)
	updated = append(updated, history...)
	updated = append(updated,
		models.ChatMessage{Role: models.RoleUser, Content: userMessage},
		models.ChatMessage{Role: models.RoleAssistant, Content: completion.Text},
	)

	return models.ChatResult{
		Status:              models.StatusSuccess,
		Response:            completion.Text,
		TokensUsed:          completion.TokensUsed,
		ConversationHistory: updated,
	}
}
