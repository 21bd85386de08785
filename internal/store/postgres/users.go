package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aipreacher/backend/internal/model/denomination"
	"github.com/aipreacher/backend/internal/model/user"
	"github.com/aipreacher/backend/internal/store"
)

var _ store.Users = (*Store)(nil)

const userColumns = `id, name, email, mood, denomination_id`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Mood, &u.DenominationID)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, store.ErrNotFound
	}
	return u, err
}

func (s *Store) Register(ctx context.Context, reg user.Registration) (user.User, error) {
	existing, err := s.FindByEmail(ctx, reg.Email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return scanUser(s.db.QueryRow(
			ctx,
			`INSERT INTO users (id, name, email, mood, denomination_id)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING `+userColumns,
			uuid.NewString(),
			reg.Name,
			reg.Email,
			reg.Mood,
			reg.DenominationID,
		))
	case err != nil:
		return user.User{}, err
	}

	if existing.Name != reg.Name {
		return user.User{}, store.ErrEmailTaken
	}
	if existing.Mood == reg.Mood && sameDenomination(existing.DenominationID, reg.DenominationID) {
		return existing, nil
	}
	return scanUser(s.db.QueryRow(
		ctx,
		`UPDATE users SET mood = $1, denomination_id = $2
		 WHERE id = $3
		 RETURNING `+userColumns,
		reg.Mood,
		reg.DenominationID,
		existing.ID,
	))
}

func sameDenomination(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *Store) FindByEmail(ctx context.Context, email string) (user.User, error) {
	return scanUser(s.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`,
		email,
	))
}

func (s *Store) Lookup(ctx context.Context, userID string) (user.Profile, error) {
	p := user.Profile{ID: userID}
	err := s.db.QueryRow(
		ctx,
		`SELECT users.name, users.mood, COALESCE(denominations.name, $2)
		 FROM users
		 LEFT JOIN denominations ON users.denomination_id = denominations.id
		 WHERE users.id = $1`,
		userID,
		denomination.Fallback,
	).Scan(&p.Name, &p.StoredMood, &p.Denomination)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.Profile{}, store.ErrNotFound
	}
	if err != nil {
		return user.Profile{}, err
	}
	return p, nil
}

func (s *Store) UpdateMood(ctx context.Context, userID, mood string) (user.User, error) {
	return scanUser(s.db.QueryRow(
		ctx,
		`UPDATE users SET mood = $1 WHERE id = $2 RETURNING `+userColumns,
		mood,
		userID,
	))
}

func (s *Store) UpdateDenomination(ctx context.Context, userID string, denominationID int) (user.User, error) {
	return scanUser(s.db.QueryRow(
		ctx,
		`UPDATE users SET denomination_id = $1 WHERE id = $2 RETURNING `+userColumns,
		denominationID,
		userID,
	))
}
