package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "ecohubs/pkg/platform/audit"
)

func TestAppendDerivesCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO audit_events").
		WithArgs(sqlmock.AnyArg(), "governance", at, "draft-1", "draft_published", "published", "", "req-1", "0xowner").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = New(db).Append(context.Background(), audit.Event{
		Category:  audit.CategoryOperations,
		Timestamp: at,
		Subject:   "draft-1",
		Action:    string(audit.EventDraftPublished),
		Decision:  "published",
		RequestID: "req-1",
		ActorID:   "0xowner",
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"category", "occurred_at", "subject", "action", "decision", "reason", "request_id", "actor_id"}).
		AddRow("security", at, "0xabc", "admin_sign_in_failed", "denied", "not_owner", "req-2", "")
	mock.ExpectQuery("SELECT category, occurred_at, subject, action, decision, reason, request_id, actor_id FROM audit_events").
		WithArgs(defaultLimit).
		WillReturnRows(rows)

	events, err := New(db).ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.CategorySecurity, events[0].Category)
	assert.Equal(t, "not_owner", events[0].Reason)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestErrorsAreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS audit_events").WillReturnError(errors.New("permission denied"))

	err = New(db).EnsureSchema(context.Background())
	assert.ErrorContains(t, err, "create audit_events table")
}
