package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/example/meeting-intake/internal/application/intake"
)

// DBTX is the slice of pgxpool.Pool the repo needs; narrow so tests can stand
// in a mock pool.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// SubmissionRepo is an append-only log of booking submission attempts. It is
// write-mostly: nothing here is ever read back into a live form.
type SubmissionRepo struct{ db DBTX }

func NewSubmissionRepo(db DBTX) *SubmissionRepo { return &SubmissionRepo{db: db} }

func (r *SubmissionRepo) Record(ctx context.Context, a intake.Attempt) error {
	_, err := r.db.Exec(ctx, `
INSERT INTO submission_attempts (outcome, duration_id, date, user_email, detail, created_at)
VALUES ($1,$2,$3,$4,$5,$6)`,
		a.Outcome, a.DurationID, a.Date, a.UserEmail, a.Detail, a.CreatedAt,
	)
	return err
}

func (r *SubmissionRepo) Recent(ctx context.Context, limit int) ([]intake.Attempt, error) {
	rows, err := r.db.Query(ctx, `
SELECT outcome, duration_id, date, user_email, detail, created_at
FROM submission_attempts
ORDER BY created_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []intake.Attempt
	for rows.Next() {
		var a intake.Attempt
		if err := rows.Scan(&a.Outcome, &a.DurationID, &a.Date, &a.UserEmail, &a.Detail, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
