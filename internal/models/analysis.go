package models

import (
	"fmt"
	"time"
)

// Chat roles used in conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one role-tagged turn of a coaching conversation. History is
// supplied by the caller on every request; the server keeps no chat state.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result statuses for coach operations.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// AnalysisResult is the outcome of one monthly-narrative generation. Provider
// faults land here as Status "error" with a message instead of propagating.
type AnalysisResult struct {
	Status      string          `json:"status"`
	Analysis    string          `json:"analysis,omitempty"`
	Model       string          `json:"model,omitempty"`
	TokensUsed  int             `json:"tokens_used,omitempty"`
	SummaryData *MonthlySummary `json:"summary_data,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// ChatResult is the outcome of one chat turn. On success ConversationHistory
// is the caller's history with the new user and assistant turns appended, in
// that order.
type ChatResult struct {
	Status              string        `json:"status"`
	Response            string        `json:"response,omitempty"`
	TokensUsed          int           `json:"tokens_used,omitempty"`
	ConversationHistory []ChatMessage `json:"conversation_history,omitempty"`
	Error               string        `json:"error,omitempty"`
}

// AnalysisRecord is the persisted narrative for one user-month, keyed by
// "YYYY-MM". Re-generation overwrites the whole record (last write wins).
type AnalysisRecord struct {
	UserID               string          `json:"user_id"`
	Year                 int             `json:"year"`
	Month                int             `json:"month"`
	Status               string          `json:"status"`
	Analysis             string          `json:"analysis"`
	Model                string          `json:"model"`
	TokensUsed           int             `json:"tokens_used"`
	SummaryData          *MonthlySummary `json:"summary_data,omitempty"`
	PreviousContextCount int             `json:"previous_context_count"`
	CreatedAt            time.Time       `json:"created_at"`
}

// DocumentID returns the record's storage key, e.g. "2024-03".
func (a AnalysisRecord) DocumentID() string {
	return AnalysisDocumentID(a.Year, a.Month)
}

// AnalysisDocumentID formats a year-month storage key with a zero-padded
// month.
func AnalysisDocumentID(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

// ParseAnalysisDocumentID splits a "YYYY-MM" key back into year and month.
func ParseAnalysisDocumentID(id string) (year, month int, err error) {
	if _, err := fmt.Sscanf(id, "%d-%d", &year, &month); err != nil {
		return 0, 0, fmt.Errorf("invalid analysis id %q: %w", id, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid analysis id %q: month out of range", id)
	}
	return year, month, nil
}
