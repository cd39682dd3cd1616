package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at startup. Plain IF NOT EXISTS statements instead of a
// migration tool: three append-only tables do not justify one.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS chat_sessions (
		id         TEXT PRIMARY KEY,
		client_id  TEXT NOT NULL DEFAULT '',
		state      TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id               TEXT PRIMARY KEY,
		session_id       TEXT NOT NULL REFERENCES chat_sessions(id),
		role             TEXT NOT NULL,
		body             TEXT NOT NULL DEFAULT '',
		body_compressed  BYTEA,
		compression_algo TEXT NOT NULL DEFAULT 'none',
		created_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_messages_session
		ON chat_messages (session_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS chat_submissions (
		id         TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		action     TEXT NOT NULL,
		payload    JSONB NOT NULL,
		outcome    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
}

// EnsureSchema creates the transcript tables if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
