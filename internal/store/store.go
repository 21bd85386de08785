// Package store declares the persistence contracts shared by the postgres
// and in-memory backends.
package store

import (
	"context"
	"errors"

	"github.com/aipreacher/backend/internal/model/chat"
	"github.com/aipreacher/backend/internal/model/user"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrEmailTaken = errors.New("email already exists with another user")
)

// Users is the user directory.
type Users interface {
	// Register creates a user, or updates mood/denomination when the email
	// already belongs to a user with the same name.
	Register(ctx context.Context, reg user.Registration) (user.User, error)
	FindByEmail(ctx context.Context, email string) (user.User, error)
	// Lookup resolves the profile used by the chat pipeline. Denomination
	// falls back to "Others" when unset.
	Lookup(ctx context.Context, userID string) (user.Profile, error)
	UpdateMood(ctx context.Context, userID, mood string) (user.User, error)
	UpdateDenomination(ctx context.Context, userID string, denominationID int) (user.User, error)
}

// Sessions persists chat session records.
type Sessions interface {
	Create(ctx context.Context, userID string) (chat.Session, error)
	Exists(ctx context.Context, sessionID, userID string) (bool, error)
	ListSessions(ctx context.Context, userID string) ([]chat.Session, error)
	Rename(ctx context.Context, sessionID, title string) (chat.Session, error)
	// Delete removes the session and its history.
	Delete(ctx context.Context, sessionID, userID string) error
	Touch(ctx context.Context, sessionID string) error
}

// History persists chat exchanges.
type History interface {
	Append(ctx context.Context, record chat.Record) (chat.Record, error)
	// Load returns the turns of the most recent limit exchanges, oldest first.
	Load(ctx context.Context, userID, sessionID string, limit int) ([]chat.Turn, error)
	// ListRecords returns the session's exchanges; when sessionID is empty or has no
	// rows, the whole history of the user is returned.
	ListRecords(ctx context.Context, userID, sessionID string) ([]chat.Record, error)
}
