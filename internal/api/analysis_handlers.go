package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PULSECOACH/pulsecoach/internal/auth"
	"github.com/PULSECOACH/pulsecoach/internal/coach"
	"github.com/PULSECOACH/pulsecoach/internal/database"
	"github.com/PULSECOACH/pulsecoach/internal/models"
	"github.com/PULSECOACH/pulsecoach/internal/profile"
)

// SummaryBuilder reduces a user-month of raw logs into the summary fed to
// the coach.
type SummaryBuilder interface {
	BuildCompleteSummary(ctx context.Context, userID string, year, month int) (*models.MonthlySummary, error)
}

// AnalysisStore persists generated monthly analyses.
type AnalysisStore interface {
	Upsert(ctx context.Context, record models.AnalysisRecord) error
	Get(ctx context.Context, userID string, year, month int) (*models.AnalysisRecord, error)
	List(ctx context.Context, userID string, year, limit int) ([]models.AnalysisRecord, error)
	PriorAnalyses(ctx context.Context, userID string, year, month int) ([]models.AnalysisRecord, error)
	Delete(ctx context.Context, userID string, year, month int) error
}

// TokenRecorder receives token counts from completed coach calls.
type TokenRecorder interface {
	AddLLMTokens(operation string, tokens int)
}

// AnalysisHandler serves the summary, analysis, and chat endpoints.
type AnalysisHandler struct {
	builder  SummaryBuilder
	analyses AnalysisStore
	profiles DocumentStore
	coach    *coach.Coach
	tokens   TokenRecorder
	logger   *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler. tokens may be nil when
// metrics are disabled.
func NewAnalysisHandler(builder SummaryBuilder, analyses AnalysisStore, profiles DocumentStore, c *coach.Coach, tokens TokenRecorder, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		builder:  builder,
		analyses: analyses,
		profiles: profiles,
		coach:    c,
		tokens:   tokens,
		logger:   logger,
	}
}

// loadProfile fetches and normalizes the user's coaching profile. A missing
// or unreadable profile document falls back to the default profile.
func (h *AnalysisHandler) loadProfile(ctx context.Context, userID string) models.CoachingProfile {
	doc, err := h.profiles.GetDocument(ctx, userID, models.CollectionUserProfile, models.ProfileDocumentID)
	if err != nil {
		if err != database.ErrNotFound {
			h.logger.Warn("failed to load profile, using default", "user_id", userID, "error", err)
		}
		return profile.Default()
	}

	var raw models.RawProfile
	if err := json.Unmarshal(doc.Payload, &raw); err != nil {
		h.logger.Warn("unreadable profile payload, using default", "user_id", userID, "error", err)
		return profile.Default()
	}
	return profile.Transform(&raw)
}

// GetSummary handles GET /api/ai-analysis/summary?year=&month=
func (h *AnalysisHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	year, month, err := yearMonthFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.builder.BuildCompleteSummary(r.Context(), userID, year, month)
	if err != nil {
		h.logger.Error("failed to build summary", "user_id", userID, "year", year, "month", month, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to build summary")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

type generateRequest struct {
	Year                  int   `json:"year"`
	Month                 int   `json:"month"`
	IncludePreviousMonths *bool `json:"include_previous_months"`
}

// Generate handles POST /api/ai-analysis/generate. It rebuilds the month's
// summary, gathers earlier months of the same year as context unless the
// caller opts out, asks the coach for a narrative, and persists successful
// results keyed by "YYYY-MM".
func (h *AnalysisHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := parseYearMonth(req.Year, req.Month); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	summary, err := h.builder.BuildCompleteSummary(ctx, userID, req.Year, req.Month)
	if err != nil {
		h.logger.Error("failed to build summary", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to build summary")
		return
	}

	var priorTexts []string
	if req.IncludePreviousMonths == nil || *req.IncludePreviousMonths {
		prior, err := h.analyses.PriorAnalyses(ctx, userID, req.Year, req.Month)
		if err != nil {
			h.logger.Error("failed to load prior analyses", "user_id", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to load prior analyses")
			return
		}
		for _, p := range prior {
			priorTexts = append(priorTexts, p.Analysis)
		}
	}

	userProfile := h.loadProfile(ctx, userID)
	result := h.coach.GenerateGeneralAnalysis(ctx, userProfile, summary, priorTexts)
	if h.tokens != nil {
		h.tokens.AddLLMTokens("monthly_analysis", result.TokensUsed)
	}
	if result.Status == models.StatusError {
		writeError(w, http.StatusInternalServerError, "AI analysis failed: "+result.Error)
		return
	}

	record := models.AnalysisRecord{
		UserID:               userID,
		Year:                 req.Year,
		Month:                req.Month,
		Status:               result.Status,
		Analysis:             result.Analysis,
		Model:                result.Model,
		TokensUsed:           result.TokensUsed,
		SummaryData:          result.SummaryData,
		PreviousContextCount: len(priorTexts),
	}
	if err := h.analyses.Upsert(ctx, record); err != nil {
		h.logger.Error("failed to store analysis", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to store analysis")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":                  result.Status,
		"analysis":                result.Analysis,
		"tokens_used":             result.TokensUsed,
		"model":                   result.Model,
		"previous_context_months": record.PreviousContextCount,
		"document_id":             record.DocumentID(),
	})
}

// List handles GET /api/ai-analysis/analyses?year=&limit=
func (h *AnalysisHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	year := 0
	if v := r.URL.Query().Get("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year must be an integer")
			return
		}
		year = parsed
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	records, err := h.analyses.List(r.Context(), userID, year, limit)
	if err != nil {
		h.logger.Error("failed to list analyses", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list analyses")
		return
	}
	if records == nil {
		records = []models.AnalysisRecord{}
	}

	// Stored summary data stays out of the listing; the by-id endpoint
	// returns the full record.
	summaries := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, map[string]interface{}{
			"id":          rec.DocumentID(),
			"year":        rec.Year,
			"month":       rec.Month,
			"analysis":    rec.Analysis,
			"tokens_used": rec.TokensUsed,
			"model":       rec.Model,
			"created_at":  rec.CreatedAt,
			"status":      rec.Status,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"analyses": summaries,
		"count":    len(summaries),
	})
}

// ByID handles GET and DELETE on /api/ai-analysis/analyses/{id} where id is
// "YYYY-MM".
func (h *AnalysisHandler) ByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	id := parts[len(parts)-1]
	year, month, err := models.ParseAnalysisDocumentID(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Analysis id must be YYYY-MM")
		return
	}

	switch r.Method {
	case http.MethodGet:
		record, err := h.analyses.Get(r.Context(), userID, year, month)
		if err == database.ErrNotFound {
			writeError(w, http.StatusNotFound, "Analysis not found")
			return
		}
		if err != nil {
			h.logger.Error("failed to get analysis", "user_id", userID, "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		writeJSON(w, http.StatusOK, record)

	case http.MethodDelete:
		err := h.analyses.Delete(r.Context(), userID, year, month)
		if err == database.ErrNotFound {
			writeError(w, http.StatusNotFound, "Analysis not found")
			return
		}
		if err != nil {
			h.logger.Error("failed to delete analysis", "user_id", userID, "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})

	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

type chatRequest struct {
	Message             string               `json:"message"`
	Year                int                  `json:"year"`
	Month               int                  `json:"month"`
	ConversationHistory []models.ChatMessage `json:"conversation_history"`
}

// Chat handles POST /api/ai-analysis/chat. Year and month default to the
// current month; each call rebuilds the summary so answers always reflect the
// latest logs.
func (h *AnalysisHandler) Chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}
	now := time.Now()
	if req.Year == 0 {
		req.Year = now.Year()
	}
	if req.Month == 0 {
		req.Month = int(now.Month())
	}
	if err := parseYearMonth(req.Year, req.Month); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	summary, err := h.builder.BuildCompleteSummary(ctx, userID, req.Year, req.Month)
	if err != nil {
		h.logger.Error("failed to build summary for chat", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to build summary")
		return
	}

	userProfile := h.loadProfile(ctx, userID)
	result := h.coach.Chat(ctx, userProfile, req.Message, summary, req.ConversationHistory)
	if h.tokens != nil {
		h.tokens.AddLLMTokens("chat", result.TokensUsed)
	}
	if result.Status == models.StatusError {
		writeError(w, http.StatusInternalServerError, "Chat failed: "+result.Error)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
