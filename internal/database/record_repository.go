package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PULSECOACH/pulsecoach/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidDate is returned when a payload date is not an ISO calendar day.
var ErrInvalidDate = errors.New("invalid date")

// RecordRepository stores the per-user log documents. Every log surface
// (workouts, macros, sleep, ...) shares one table keyed by collection name;
// payloads stay as JSONB so clients can evolve their shapes freely.
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new record repository.
func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

const dateLayout = "2006-01-02"

// PutDocument inserts or replaces a document. A missing id gets a generated
// UUID; the payload's "date" field, when present, is indexed for range
// queries. Returns the stored document with its final id.
func (r *RecordRepository) PutDocument(ctx context.Context, userID string, doc models.Document) (models.Document, error) {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}

	var date sql.NullString
	var probe struct {
		Date string `json:"date"`
	}
	if err := json.Unmarshal(doc.Payload, &probe); err == nil && probe.Date != "" {
		if _, err := time.Parse(dateLayout, probe.Date); err != nil {
			return models.Document{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, probe.Date)
		}
		date = sql.NullString{String: probe.Date, Valid: true}
	}
	doc.Date = date.String

	query := `
		INSERT INTO records (user_id, collection, id, date, payload, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id, collection, id)
		DO UPDATE SET date = EXCLUDED.date, payload = EXCLUDED.payload, updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query, userID, doc.Collection, doc.ID, date, []byte(doc.Payload))
	if err != nil {
		return models.Document{}, fmt.Errorf("failed to store document: %w", err)
	}

	return doc, nil
}

// GetDocument fetches one document by id.
func (r *RecordRepository) GetDocument(ctx context.Context, userID, collection, id string) (*models.Document, error) {
	query := `
		SELECT id, date, payload
		FROM records
		WHERE user_id = $1 AND collection = $2 AND id = $3`

	doc := models.Document{Collection: collection}
	var date sql.NullString
	var payload []byte

	err := r.db.QueryRowContext(ctx, query, userID, collection, id).Scan(&doc.ID, &date, &payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	doc.Date = date.String
	doc.Payload = json.RawMessage(payload)
	return &doc, nil
}

// DeleteDocument removes one document by id.
func (r *RecordRepository) DeleteDocument(ctx context.Context, userID, collection, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM records WHERE user_id = $1 AND collection = $2 AND id = $3`,
		userID, collection, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
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

// ListDocuments returns every document in a collection, oldest first.
func (r *RecordRepository) ListDocuments(ctx context.Context, userID, collection string) ([]models.Document, error) {
	query := `
		SELECT id, date, payload
		FROM records
		WHERE user_id = $1 AND collection = $2
		ORDER BY date NULLS LAST, created_at`

	rows, err := r.db.QueryContext(ctx, query, userID, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		doc := models.Document{Collection: collection}
		var date sql.NullString
		var payload []byte
		if err := rows.Scan(&doc.ID, &date, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc.Date = date.String
		doc.Payload = json.RawMessage(payload)
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// fetchRange streams the payloads of one collection inside an inclusive date
// range, oldest first, into the decode callback.
func (r *RecordRepository) fetchRange(ctx context.Context, userID, collection string, start, end time.Time, decode func(id string, payload []byte) error) error {
	query := `
		SELECT id, payload
		FROM records
		WHERE user_id = $1 AND collection = $2 AND date >= $3 AND date <= $4
		ORDER BY date, created_at`

	rows, err := r.db.QueryContext(ctx, query, userID, collection,
		start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return fmt.Errorf("failed to scan %s row: %w", collection, err)
		}
		if err := decode(id, payload); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", collection, err)
		}
	}
	return rows.Err()
}

// WorkoutSessions returns workout logs inside [start, end].
func (r *RecordRepository) WorkoutSessions(ctx context.Context, userID string, start, end time.Time) ([]models.WorkoutSession, error) {
	var out []models.WorkoutSession
	err := r.fetchRange(ctx, userID, models.CollectionWorkoutSessions, start, end, func(id string, payload []byte) error {
		var s models.WorkoutSession
		if err := json.Unmarshal(payload, &s); err != nil {
			return err
		}
		s.ID = id
		out = append(out, s)
		return nil
	})
	return out, err
}

// MacroEntries returns nutrition logs inside [start, end].
func (r *RecordRepository) MacroEntries(ctx context.Context, userID string, start, end time.Time) ([]models.MacroEntry, error) {
	var out []models.MacroEntry
	err := r.fetchRange(ctx, userID, models.CollectionMacros, start, end, func(id string, payload []byte) error {
		var m models.MacroEntry
		if err := json.Unmarshal(payload, &m); err != nil {
			return err
		}
		m.ID = id
		out = append(out, m)
		return nil
	})
	return out, err
}

// SleepEntries returns sleep logs inside [start, end].
func (r *RecordRepository) SleepEntries(ctx context.Context, userID string, start, end time.Time) ([]models.SleepEntry, error) {
	var out []models.SleepEntry
	err := r.fetchRange(ctx, userID, models.CollectionSleep, start, end, func(id string, payload []byte) error {
		var s models.SleepEntry
		if err := json.Unmarshal(payload, &s); err != nil {
			return err
		}
		s.ID = id
		out = append(out, s)
		return nil
	})
	return out, err
}

// WellnessSurveys returns wellness check-ins inside [start, end].
func (r *RecordRepository) WellnessSurveys(ctx context.Context, userID string, start, end time.Time) ([]models.WellnessSurvey, error) {
	var out []models.WellnessSurvey
	err := r.fetchRange(ctx, userID, models.CollectionWellnessSurvey, start, end, func(id string, payload []byte) error {
		var w models.WellnessSurvey
		if err := json.Unmarshal(payload, &w); err != nil {
			return err
		}
		w.ID = id
		out = append(out, w)
		return nil
	})
	return out, err
}

// StressEntries returns stress logs inside [start, end].
func (r *RecordRepository) StressEntries(ctx context.Context, userID string, start, end time.Time) ([]models.StressEntry, error) {
	var out []models.StressEntry
	err := r.fetchRange(ctx, userID, models.CollectionStress, start, end, func(id string, payload []byte) error {
		var s models.StressEntry
		if err := json.Unmarshal(payload, &s); err != nil {
			return err
		}
		s.ID = id
		out = append(out, s)
		return nil
	})
	return out, err
}

// ActivityEntries returns daily-activity logs inside [start, end].
func (r *RecordRepository) ActivityEntries(ctx context.Context, userID string, start, end time.Time) ([]models.ActivityEntry, error) {
	var out []models.ActivityEntry
	err := r.fetchRange(ctx, userID, models.CollectionPhysicalActivities, start, end, func(id string, payload []byte) error {
		var a models.ActivityEntry
		if err := json.Unmarshal(payload, &a); err != nil {
			return err
		}
		a.ID = id
		out = append(out, a)
		return nil
	})
	return out, err
}
