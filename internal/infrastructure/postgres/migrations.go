package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS submission_attempts (
	id BIGSERIAL PRIMARY KEY,
	outcome TEXT NOT NULL,
	duration_id TEXT NOT NULL DEFAULT '',
	date TEXT NOT NULL DEFAULT '',
	user_email TEXT NOT NULL DEFAULT '',
	detail TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_submission_attempts_created_at ON submission_attempts(created_at);
`

func Migrate(ctx context.Context, db DBTX) error {
	_, err := db.Exec(ctx, schemaSQL)
	return err
}
