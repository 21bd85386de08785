package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aipreacher/backend/internal/model/chat"
	"github.com/aipreacher/backend/internal/store"
)

var _ store.Sessions = (*Store)(nil)

const sessionColumns = `session_id, user_id, title, created_at, updated_at`

func scanSession(row pgx.Row) (chat.Session, error) {
	var session chat.Session
	err := row.Scan(&session.ID, &session.UserID, &session.Title, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.Session{}, store.ErrNotFound
	}
	return session, err
}

func (s *Store) Create(ctx context.Context, userID string) (chat.Session, error) {
	return scanSession(s.db.QueryRow(
		ctx,
		`INSERT INTO chat_sessions (session_id, user_id, title)
		 VALUES ($1, $2, $3)
		 RETURNING `+sessionColumns,
		uuid.NewString(),
		userID,
		chat.DefaultTitle,
	))
}

func (s *Store) Exists(ctx context.Context, sessionID, userID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM chat_sessions WHERE session_id = $1 AND user_id = $2)`,
		sessionID,
		userID,
	).Scan(&exists)
	return exists, err
}

func (s *Store) ListSessions(ctx context.Context, userID string) ([]chat.Session, error) {
	rows, err := s.db.Query(
		ctx,
		`SELECT `+sessionColumns+`
		 FROM chat_sessions
		 WHERE user_id = $1
		 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]chat.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, session)
	}
	return items, rows.Err()
}

func (s *Store) Rename(ctx context.Context, sessionID, title string) (chat.Session, error) {
	return scanSession(s.db.QueryRow(
		ctx,
		`UPDATE chat_sessions SET title = $1, updated_at = NOW()
		 WHERE session_id = $2
		 RETURNING `+sessionColumns,
		title,
		sessionID,
	))
}

func (s *Store) Delete(ctx context.Context, sessionID, userID string) error {
	exists, err := s.Exists(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if !exists {
		return store.ErrNotFound
	}

	if _, err := s.db.Exec(
		ctx,
		`DELETE FROM chat_history WHERE session_id = $1 AND user_id = $2`,
		sessionID,
		userID,
	); err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `DELETE FROM chat_sessions WHERE session_id = $1`, sessionID)
	return err
}

func (s *Store) Touch(ctx context.Context, sessionID string) error {
	tag, err := s.db.Exec(ctx, `UPDATE chat_sessions SET updated_at = NOW() WHERE session_id = $1`, sessionID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
