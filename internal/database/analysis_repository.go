package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/PULSECOACH/pulsecoach/internal/models"
)

// AnalysisRepository stores generated monthly analyses, one row per
// user-month. Regeneration overwrites the previous row.
type AnalysisRepository struct {
	db *sql.DB
}

// NewAnalysisRepository creates a new analysis repository.
func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Upsert stores an analysis, replacing any existing row for the same
// user-month.
func (r *AnalysisRepository) Upsert(ctx context.Context, record models.AnalysisRecord) error {
	var summaryJSON []byte
	if record.SummaryData != nil {
		var err error
		summaryJSON, err = json.Marshal(record.SummaryData)
		if err != nil {
			return fmt.Errorf("failed to marshal summary data: %w", err)
		}
	}

	query := `
		INSERT INTO analyses (user_id, year, month, status, analysis, model, tokens_used, summary_data, previous_context_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (user_id, year, month)
		DO UPDATE SET
			status = EXCLUDED.status,
			analysis = EXCLUDED.analysis,
			model = EXCLUDED.model,
			tokens_used = EXCLUDED.tokens_used,
			summary_data = EXCLUDED.summary_data,
			previous_context_count = EXCLUDED.previous_context_count,
			created_at = NOW()`

	_, err := r.db.ExecContext(ctx, query,
		record.UserID, record.Year, record.Month,
		record.Status, record.Analysis, record.Model,
		record.TokensUsed, summaryJSON, record.PreviousContextCount)
	if err != nil {
		return fmt.Errorf("failed to store analysis: %w", err)
	}
	return nil
}

const analysisColumns = `user_id, year, month, status, analysis, model, tokens_used, summary_data, previous_context_count, created_at`

func scanAnalysis(scan func(dest ...interface{}) error) (models.AnalysisRecord, error) {
	var record models.AnalysisRecord
	var summaryJSON []byte

	err := scan(&record.UserID, &record.Year, &record.Month,
		&record.Status, &record.Analysis, &record.Model,
		&record.TokensUsed, &summaryJSON, &record.PreviousContextCount,
		&record.CreatedAt)
	if err != nil {
		return models.AnalysisRecord{}, err
	}

	if len(summaryJSON) > 0 {
		var summary models.MonthlySummary
		if err := json.Unmarshal(summaryJSON, &summary); err != nil {
			return models.AnalysisRecord{}, fmt.Errorf("failed to unmarshal summary data: %w", err)
		}
		record.SummaryData = &summary
	}

	return record, nil
}

// Get fetches the analysis for one user-month.
func (r *AnalysisRepository) Get(ctx context.Context, userID string, year, month int) (*models.AnalysisRecord, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE user_id = $1 AND year = $2 AND month = $3`

	row := r.db.QueryRowContext(ctx, query, userID, year, month)
	record, err := scanAnalysis(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return &record, nil
}

// List returns stored analyses for a user, newest first. A zero year means
// all years; a zero limit means no limit.
func (r *AnalysisRepository) List(ctx context.Context, userID string, year, limit int) ([]models.AnalysisRecord, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE user_id = $1`
	args := []interface{}{userID}

	if year > 0 {
		query += fmt.Sprintf(" AND year = $%d", len(args)+1)
		args = append(args, year)
	}
	query += " ORDER BY year DESC, month DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var records []models.AnalysisRecord
	for rows.Next() {
		record, err := scanAnalysis(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// PriorAnalyses returns the successful analyses that precede the given month
// within the same year, oldest first. They become prompt context, so order
// matters.
func (r *AnalysisRepository) PriorAnalyses(ctx context.Context, userID string, year, month int) ([]models.AnalysisRecord, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses
		WHERE user_id = $1 AND year = $2 AND month < $3 AND status = $4
		ORDER BY month`

	rows, err := r.db.QueryContext(ctx, query, userID, year, month, models.StatusSuccess)
	if err != nil {
		return nil, fmt.Errorf("failed to query prior analyses: %w", err)
	}
	defer rows.Close()

	var records []models.AnalysisRecord
	for rows.Next() {
		record, err := scanAnalysis(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prior analysis: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Delete removes the analysis for one user-month.
func (r *AnalysisRepository) Delete(ctx context.Context, userID string, year, month int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM analyses WHERE user_id = $1 AND year = $2 AND month = $3`,
		userID, year, month)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
