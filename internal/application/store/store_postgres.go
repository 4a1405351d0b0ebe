package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"ecohubs/internal/application/models"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS submissions (
	submission_id UUID PRIMARY KEY,
	email         TEXT        NOT NULL,
	full_name     TEXT        NOT NULL,
	submitted_at  TIMESTAMPTZ NOT NULL,
	report        JSONB       NOT NULL
);
CREATE INDEX IF NOT EXISTS submissions_submitted_at_idx ON submissions (submitted_at DESC);
`

// PostgresStore persists the log in the submissions table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("create submissions table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, rec models.Record) error {
	report, err := json.Marshal(rec.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	query := `
		INSERT INTO submissions (submission_id, email, full_name, submitted_at, report)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (submission_id) DO UPDATE SET report = EXCLUDED.report
	`
	_, err = s.db.ExecContext(ctx, query, rec.SubmissionID, rec.Email, rec.FullName, rec.SubmittedAt, report)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]models.Record, error) {
	if limit <= 0 {
		limit = DefaultMemoryCapacity
	}
	query := `
		SELECT submission_id, email, full_name, submitted_at, report
		FROM submissions
		ORDER BY submitted_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var out []models.Record
	for rows.Next() {
		var rec models.Record
		var report []byte
		if err := rows.Scan(&rec.SubmissionID, &rec.Email, &rec.FullName, &rec.SubmittedAt, &report); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		if err := json.Unmarshal(report, &rec.Report); err != nil {
			return nil, fmt.Errorf("unmarshal report: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return out, nil
}
