package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/meeting-intake/internal/application/intake"
)

func TestRecord(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO submission_attempts").
		WithArgs("failed", "d1", "2024-03-15", "jane@x.com", "booking service error (status=500)", created).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewSubmissionRepo(mock)
	err = repo.Record(context.Background(), intake.Attempt{
		Outcome:    "failed",
		DurationID: "d1",
		Date:       "2024-03-15",
		UserEmail:  "jane@x.com",
		Detail:     "booking service error (status=500)",
		CreatedAt:  created,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"outcome", "duration_id", "date", "user_email", "detail", "created_at"}).
		AddRow("succeeded", "d1", "2024-03-15", "jane@x.com", "", created).
		AddRow("failed", "d1", "2024-03-14", "bob@x.com", "boom", created.Add(-time.Hour))
	mock.ExpectQuery("SELECT outcome, duration_id, date, user_email, detail, created_at").
		WithArgs(10).
		WillReturnRows(rows)

	repo := NewSubmissionRepo(mock)
	got, err := repo.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "succeeded", got[0].Outcome)
	assert.Equal(t, "jane@x.com", got[0].UserEmail)
	assert.Equal(t, "failed", got[1].Outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}
