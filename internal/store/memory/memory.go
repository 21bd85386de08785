// Package memory keeps users, sessions and history in process memory. It
// backs local runs without DATABASE_URL and the test suites.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aipreacher/backend/internal/model/chat"
	"github.com/aipreacher/backend/internal/model/denomination"
	"github.com/aipreacher/backend/internal/model/user"
	"github.com/aipreacher/backend/internal/store"
)

// Store implements store.Users, store.Sessions and store.History.
type Store struct {
	mu            sync.RWMutex
	denominations *denomination.MemoryStore
	users         map[string]user.User
	sessions      map[string]chat.Session
	history       []chat.Record
	now           func() time.Time
}

// New bootstraps an empty store that resolves denomination names from denoms.
func New(denoms *denomination.MemoryStore) *Store {
	return &Store{
		denominations: denoms,
		users:         make(map[string]user.User),
		sessions:      make(map[string]chat.Session),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

var (
	_ store.Users    = (*Store)(nil)
	_ store.Sessions = (*Store)(nil)
	_ store.History  = (*Store)(nil)
)

func (s *Store) Register(_ context.Context, reg user.Registration) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.users {
		if !strings.EqualFold(existing.Email, reg.Email) {
			continue
		}
		if existing.Name != reg.Name {
			return user.User{}, store.ErrEmailTaken
		}
		existing.Mood = reg.Mood
		existing.DenominationID = reg.DenominationID
		s.users[id] = existing
		return existing, nil
	}

	created := user.User{
		ID:             uuid.NewString(),
		Name:           reg.Name,
		Email:          reg.Email,
		Mood:           reg.Mood,
		DenominationID: reg.DenominationID,
	}
	s.users[created.ID] = created
	return created, nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, store.ErrNotFound
}

func (s *Store) Lookup(_ context.Context, userID string) (user.Profile, error) {
	s.mu.RLock()
	u, ok := s.users[userID]
	s.mu.RUnlock()
	if !ok {
		return user.Profile{}, store.ErrNotFound
	}

	denom := denomination.Fallback
	if u.DenominationID != nil && s.denominations != nil {
		if d, found := s.denominations.FindByID(*u.DenominationID); found {
			denom = d.Name
		}
	}
	return user.Profile{ID: u.ID, Name: u.Name, StoredMood: u.Mood, Denomination: denom}, nil
}

func (s *Store) UpdateMood(_ context.Context, userID, mood string) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return user.User{}, store.ErrNotFound
	}
	u.Mood = mood
	s.users[userID] = u
	return u, nil
}

func (s *Store) UpdateDenomination(_ context.Context, userID string, denominationID int) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return user.User{}, store.ErrNotFound
	}
	u.DenominationID = &denominationID
	s.users[userID] = u
	return u, nil
}

func (s *Store) Create(_ context.Context, userID string) (chat.Session, error) {
	now := s.now()
	session := chat.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     chat.DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return session, nil
}

func (s *Store) Exists(_ context.Context, sessionID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	return ok && session.UserID == userID, nil
}

func (s *Store) ListSessions(_ context.Context, userID string) ([]chat.Session, error) {
	s.mu.RLock()
	items := make([]chat.Session, 0)
	for _, session := range s.sessions {
		if session.UserID == userID {
			items = append(items, session)
		}
	}
	s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool { return items[i].UpdatedAt.After(items[j].UpdatedAt) })
	return items, nil
}

func (s *Store) Rename(_ context.Context, sessionID, title string) (chat.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return chat.Session{}, store.ErrNotFound
	}
	session.Title = title
	session.UpdatedAt = s.now()
	s.sessions[sessionID] = session
	return session, nil
}

func (s *Store) Delete(_ context.Context, sessionID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok || session.UserID != userID {
		return store.ErrNotFound
	}

	kept := s.history[:0]
	for _, rec := range s.history {
		if rec.SessionID == sessionID && rec.UserID == userID {
			continue
		}
		kept = append(kept, rec)
	}
	s.history = kept
	delete(s.sessions, sessionID)
	return nil
}

func (s *Store) Touch(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return store.ErrNotFound
	}
	session.UpdatedAt = s.now()
	s.sessions[sessionID] = session
	return nil
}

func (s *Store) Append(_ context.Context, record chat.Record) (chat.Record, error) {
	record.ID = uuid.NewString()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now()
	}
	record.BibleVerses = append([]string(nil), record.BibleVerses...)

	s.mu.Lock()
	s.history = append(s.history, record)
	s.mu.Unlock()
	return record, nil
}

func (s *Store) Load(_ context.Context, userID, sessionID string, limit int) ([]chat.Turn, error) {
	s.mu.RLock()
	matched := make([]chat.Record, 0)
	for _, rec := range s.history {
		if rec.UserID == userID && rec.SessionID == sessionID {
			matched = append(matched, rec)
		}
	}
	s.mu.RUnlock()

	if limit > 0 && len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	turns := make([]chat.Turn, 0, len(matched)*2)
	for _, rec := range matched {
		turns = append(turns, rec.Turns()...)
	}
	return turns, nil
}

func (s *Store) ListRecords(_ context.Context, userID, sessionID string) ([]chat.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sessionID != "" {
		scoped := s.filterHistory(func(rec chat.Record) bool {
			return rec.UserID == userID && rec.SessionID == sessionID
		})
		if len(scoped) > 0 {
			return scoped, nil
		}
	}
	return s.filterHistory(func(rec chat.Record) bool { return rec.UserID == userID }), nil
}

func (s *Store) filterHistory(keep func(chat.Record) bool) []chat.Record {
	out := make([]chat.Record, 0)
	for _, rec := range s.history {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}
