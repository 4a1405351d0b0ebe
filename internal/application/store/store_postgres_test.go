package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecohubs/internal/application/models"
	"ecohubs/internal/pipeline"
)

func TestPostgresAppend(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO submissions").
		WithArgs("c0ffee00-0000-4000-8000-000000000001", "jane@example.org", "Jane", at, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = NewPostgres(db).Append(context.Background(), models.Record{
		SubmissionID: "c0ffee00-0000-4000-8000-000000000001",
		Email:        "jane@example.org",
		FullName:     "Jane",
		SubmittedAt:  at,
		Report:       pipeline.Report{{Name: "airtable", Status: pipeline.StatusOK}},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"submission_id", "email", "full_name", "submitted_at", "report"}).
		AddRow("id-1", "jane@example.org", "Jane", at, []byte(`[{"name":"admin_email","status":"failed","category":"timeout","duration_ms":10000}]`))
	mock.ExpectQuery("SELECT submission_id, email, full_name, submitted_at, report FROM submissions").
		WithArgs(20).
		WillReturnRows(rows)

	recs, err := NewPostgres(db).Recent(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "id-1", recs[0].SubmissionID)
	require.Len(t, recs[0].Report, 1)
	assert.Equal(t, pipeline.StatusFailed, recs[0].Report[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresErrorsAreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO submissions").WillReturnError(errors.New("connection reset"))
	err = NewPostgres(db).Append(context.Background(), models.Record{SubmissionID: "x"})
	require.ErrorContains(t, err, "insert submission")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS submissions").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, NewPostgres(db).EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
