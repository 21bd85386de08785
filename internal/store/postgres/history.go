package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aipreacher/backend/internal/model/chat"
	"github.com/aipreacher/backend/internal/store"
)

var _ store.History = (*Store)(nil)

const recordColumns = `id, user_id, COALESCE(session_id, ''), user_message, ai_response, bible_verses,
	COALESCE(intent, ''), COALESCE(mood, ''), created_at`

func (s *Store) Append(ctx context.Context, record chat.Record) (chat.Record, error) {
	record.ID = uuid.NewString()

	// Empty citation lists are stored as NULL.
	var verses any
	if len(record.BibleVerses) > 0 {
		verses = record.BibleVerses
	}

	err := s.db.QueryRow(
		ctx,
		`INSERT INTO chat_history (id, user_id, session_id, user_message, ai_response, bible_verses, intent, mood)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		record.ID,
		record.UserID,
		record.SessionID,
		record.UserMessage,
		record.AIResponse,
		verses,
		nullable(record.Intent),
		nullable(record.Mood),
	).Scan(&record.CreatedAt)
	if err != nil {
		return chat.Record{}, err
	}
	return record, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func (s *Store) Load(ctx context.Context, userID, sessionID string, limit int) ([]chat.Turn, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		ctx,
		`SELECT `+recordColumns+`
		 FROM chat_history
		 WHERE user_id = $1 AND session_id = $2
		 ORDER BY created_at DESC
		 LIMIT $3`,
		userID,
		sessionID,
		limit,
	)
	if err != nil {
		return nil, err
	}
	records, err := collectRecords(rows)
	if err != nil {
		return nil, err
	}

	turns := make([]chat.Turn, 0, len(records)*2)
	for i := len(records) - 1; i >= 0; i-- {
		turns = append(turns, records[i].Turns()...)
	}
	return turns, nil
}

func (s *Store) ListRecords(ctx context.Context, userID, sessionID string) ([]chat.Record, error) {
	if sessionID != "" {
		rows, err := s.db.Query(
			ctx,
			`SELECT `+recordColumns+`
			 FROM chat_history
			 WHERE user_id = $1 AND session_id = $2
			 ORDER BY created_at ASC`,
			userID,
			sessionID,
		)
		if err != nil {
			return nil, err
		}
		records, err := collectRecords(rows)
		if err != nil || len(records) > 0 {
			return records, err
		}
	}

	rows, err := s.db.Query(
		ctx,
		`SELECT `+recordColumns+`
		 FROM chat_history
		 WHERE user_id = $1
		 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

func collectRecords(rows pgx.Rows) ([]chat.Record, error) {
	defer rows.Close()

	records := make([]chat.Record, 0)
	for rows.Next() {
		var rec chat.Record
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.SessionID,
			&rec.UserMessage,
			&rec.AIResponse,
			&rec.BibleVerses,
			&rec.Intent,
			&rec.Mood,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		if rec.BibleVerses == nil {
			rec.BibleVerses = []string{}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
