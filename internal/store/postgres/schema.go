package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/aipreacher/backend/internal/model/denomination"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS denominations (
		id   INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		email           TEXT NOT NULL UNIQUE,
		mood            TEXT NOT NULL DEFAULT '',
		denomination_id INTEGER REFERENCES denominations(id),
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS chat_sessions (
		session_id TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id),
		title      TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS chat_history (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL REFERENCES users(id),
		session_id   TEXT REFERENCES chat_sessions(session_id),
		user_message TEXT NOT NULL,
		ai_response  TEXT NOT NULL,
		bible_verses JSONB,
		intent       TEXT,
		mood         TEXT,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS chat_history_session_idx ON chat_history (user_id, session_id, created_at)`,
}

// EnsureSchema applies the idempotent DDL and seeds the denominations table.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema %q: %w", firstLine(stmt), err)
		}
	}
	for _, d := range denomination.Seed() {
		if _, err := s.db.Exec(
			ctx,
			`INSERT INTO denominations (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
			d.ID,
			d.Name,
		); err != nil {
			return fmt.Errorf("seed denomination %s: %w", d.Name, err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(stmt), "\n")
	return strings.TrimSpace(line)
}
