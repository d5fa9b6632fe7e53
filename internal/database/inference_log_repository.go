package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/PULSECOACH/pulsecoach/internal/models"
)

// InferenceLogRepository stores language-model call audit records.
type InferenceLogRepository struct {
	db *sql.DB
}

// NewInferenceLogRepository creates a new inference log repository.
func NewInferenceLogRepository(db *sql.DB) *InferenceLogRepository {
	return &InferenceLogRepository{db: db}
}

// Create inserts an inference log record.
func (r *InferenceLogRepository) Create(ctx context.Context, log models.InferenceLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	var metadata interface{}
	if log.Metadata != "" {
		metadata = log.Metadata
	}

	query := `
		INSERT INTO inference_logs (id, provider, model, operation, tokens_used, input_tokens, output_tokens, cost_usd, latency_ms, status, error_message, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		log.ID, log.Provider, log.Model, log.Operation,
		log.TokensUsed, log.InputTokens, log.OutputTokens,
		log.CostUSD, log.LatencyMs, log.Status, log.ErrorMessage, metadata)
	if err != nil {
		return fmt.Errorf("failed to insert inference log: %w", err)
	}
	return nil
}

// Recent returns the newest inference logs, up to limit.
func (r *InferenceLogRepository) Recent(ctx context.Context, limit int) ([]models.InferenceLog, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, provider, model, operation, tokens_used, input_tokens, output_tokens, cost_usd, latency_ms, status, error_message, COALESCE(metadata::text, ''), created_at
		FROM inference_logs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query inference logs: %w", err)
	}
	defer rows.Close()

	var logs []models.InferenceLog
	for rows.Next() {
		var log models.InferenceLog
		var errMsg sql.NullString
		if err := rows.Scan(&log.ID, &log.Provider, &log.Model, &log.Operation,
			&log.TokensUsed, &log.InputTokens, &log.OutputTokens,
			&log.CostUSD, &log.LatencyMs, &log.Status, &errMsg,
			&log.Metadata, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inference log: %w", err)
		}
		if errMsg.Valid {
			log.ErrorMessage = &errMsg.String
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
