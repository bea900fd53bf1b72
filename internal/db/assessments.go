package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/text-reviewer/internal/types"
)

// AssessmentRecord is a stored assessment together with its database ID.
type AssessmentRecord struct {
	ID uuid.UUID `json:"id"`
	types.Assessment
}

// SaveAssessment stores an assessment and its errors in one transaction and
// returns the assigned ID. Error rows carry an explicit ordinal so the
// model-reported order survives retrieval.
func (db *DB) SaveAssessment(ctx context.Context, a *types.Assessment) (uuid.UUID, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO assessments (text_submitted, summary, processing_time, tokens_used, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		a.TextSubmitted, a.Summary, a.ProcessingTime, a.TokensUsed, a.CreatedAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save assessment: %w", err)
	}

	for i, e := range a.Errors {
		_, err = tx.Exec(ctx,
			`INSERT INTO assessment_errors
			   (assessment_id, ord, text_original, text_corrected, category, description, error_position, context)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id, i, e.TextOriginal, e.TextCorrected, string(e.Category), e.Description, e.Position, e.Context,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to save assessment error: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit assessment: %w", err)
	}
	return id, nil
}

// GetAssessment retrieves an assessment with its errors by ID.
// Returns nil when no assessment exists.
func (db *DB) GetAssessment(ctx context.Context, id uuid.UUID) (*AssessmentRecord, error) {
	var rec AssessmentRecord
	var createdAt time.Time
	err := db.pool.QueryRow(ctx,
		`SELECT id, text_submitted, summary, processing_time, tokens_used, created_at
		 FROM assessments WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.TextSubmitted, &rec.Summary, &rec.ProcessingTime, &rec.TokensUsed, &createdAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	rec.CreatedAt = createdAt.UTC()

	rec.Errors, err = db.loadErrors(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListAssessments retrieves the most recent assessments, newest first.
func (db *DB) ListAssessments(ctx context.Context, limit int) ([]AssessmentRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, text_submitted, summary, processing_time, tokens_used, created_at
		 FROM assessments ORDER BY created_at DESC, id DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	var records []AssessmentRecord
	for rows.Next() {
		var rec AssessmentRecord
		var createdAt time.Time
		if err := rows.Scan(&rec.ID, &rec.TextSubmitted, &rec.Summary, &rec.ProcessingTime, &rec.TokensUsed, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		rec.CreatedAt = createdAt.UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	for i := range records {
		records[i].Errors, err = db.loadErrors(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

// loadErrors fetches the error rows for an assessment in stored order.
func (db *DB) loadErrors(ctx context.Context, assessmentID uuid.UUID) ([]types.ErrorDetail, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT text_original, text_corrected, category, description, error_position, context
		 FROM assessment_errors WHERE assessment_id = $1 ORDER BY ord`,
		assessmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load assessment errors: %w", err)
	}
	defer rows.Close()

	errs := make([]types.ErrorDetail, 0)
	for rows.Next() {
		var e types.ErrorDetail
		var category string
		if err := rows.Scan(&e.TextOriginal, &e.TextCorrected, &category, &e.Description, &e.Position, &e.Context); err != nil {
			return nil, fmt.Errorf("failed to scan assessment error: %w", err)
		}
		e.Category = types.ErrorCategory(category)
		errs = append(errs, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load assessment errors: %w", err)
	}
	return errs, nil
}
