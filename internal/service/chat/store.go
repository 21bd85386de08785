// Package chat holds the live conversation state for active sessions. The
// durable record lives in the history repository; this store is a bounded,
// expiring cache in front of it.
package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/aipreacher/backend/internal/analysis/emotion"
	"github.com/aipreacher/backend/internal/model/chat"
)

var (
	ErrSessionNotFound = errors.New("session context not found")
	ErrAlreadyStarted  = errors.New("session sweep already started")
)

// Theme marks a conversation that carries over between turns.
type Theme string

const (
	ThemeNone       Theme = ""
	ThemeConfession Theme = "confession"
)

const (
	DefaultTTL           = 2 * time.Hour
	DefaultHistoryCap    = 40
	DefaultSweepSchedule = "@every 1h"
)

// Context is a snapshot of one session's live state.
type Context struct {
	SessionID      string
	UserID         string
	History        []chat.Turn
	EmotionalState emotion.Label
	Theme          Theme
	LastActiveAt   time.Time
}

// Clock abstracts time so expiry can be driven from tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Options tunes the store. Zero values fall back to the defaults above.
type Options struct {
	TTL           time.Duration
	HistoryCap    int
	SweepSchedule string
	Clock         Clock
}

// Store is a concurrency-safe map of session contexts with a keyed lock per
// session and a scheduled expiry sweep.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Context

	locksMu sync.Mutex
	locks   map[string]*sessionLock

	ttl        time.Duration
	historyCap int
	schedule   string
	clock      Clock

	cronMu sync.Mutex
	cron   *cron.Cron
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewStore creates an empty store. The sweep does not run until Start.
func NewStore(opts Options) *Store {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.HistoryCap < 2 {
		opts.HistoryCap = DefaultHistoryCap
	}
	if opts.SweepSchedule == "" {
		opts.SweepSchedule = DefaultSweepSchedule
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	return &Store{
		sessions:   make(map[string]*Context),
		locks:      make(map[string]*sessionLock),
		ttl:        opts.TTL,
		historyCap: opts.HistoryCap,
		schedule:   opts.SweepSchedule,
		clock:      opts.Clock,
	}
}

// Lock serialises work on one session id. Callers must invoke the returned
// function exactly once.
func (s *Store) Lock(sessionID string) (unlock func()) {
	s.locksMu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()
			s.locksMu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(s.locks, sessionID)
			}
			s.locksMu.Unlock()
		})
	}
}

// Get returns a copy of the session context.
func (s *Store) Get(sessionID string) (Context, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ctx, ok := s.sessions[sessionID]
	if !ok {
		return Context{}, false
	}
	return ctx.snapshot(), true
}

// Create registers a new context seeded with mood and any rehydrated history.
// An existing context for the same id is replaced.
func (s *Store) Create(sessionID, userID string, mood emotion.Label, history []chat.Turn) Context {
	ctx := &Context{
		SessionID:      sessionID,
		UserID:         userID,
		History:        s.bound(append([]chat.Turn(nil), history...)),
		EmotionalState: mood,
		LastActiveAt:   s.clock.Now(),
	}

	s.mu.Lock()
	s.sessions[sessionID] = ctx
	s.mu.Unlock()
	return ctx.snapshot()
}

// Touch refreshes the last activity timestamp.
func (s *Store) Touch(sessionID string) error {
	return s.update(sessionID, func(ctx *Context) {})
}

// Append adds turns in order and drops the oldest entries beyond the cap.
func (s *Store) Append(sessionID string, turns ...chat.Turn) error {
	return s.update(sessionID, func(ctx *Context) {
		ctx.History = s.bound(append(ctx.History, turns...))
	})
}

func (s *Store) SetEmotionalState(sessionID string, mood emotion.Label) error {
	return s.update(sessionID, func(ctx *Context) { ctx.EmotionalState = mood })
}

func (s *Store) SetTheme(sessionID string, theme Theme) error {
	return s.update(sessionID, func(ctx *Context) { ctx.Theme = theme })
}

func (s *Store) ClearTheme(sessionID string) error {
	return s.SetTheme(sessionID, ThemeNone)
}

// Len reports how many sessions are cached.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep evicts every session idle for longer than the TTL and returns the
// number removed.
func (s *Store) Sweep() int {
	cutoff := s.clock.Now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, ctx := range s.sessions {
		if ctx.LastActiveAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Start schedules the periodic sweep.
func (s *Store) Start() error {
	s.cronMu.Lock()
	defer s.cronMu.Unlock()
	if s.cron != nil {
		return ErrAlreadyStarted
	}

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() {
		if removed := s.Sweep(); removed > 0 {
			logrus.WithField("removed", removed).Info("[session] expired contexts swept")
		}
	}); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	return nil
}

// Stop halts the sweep and waits for a running sweep to finish.
func (s *Store) Stop() {
	s.cronMu.Lock()
	c := s.cron
	s.cron = nil
	s.cronMu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
}

func (s *Store) update(sessionID string, fn func(*Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ctx, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	fn(ctx)
	ctx.LastActiveAt = s.clock.Now()
	return nil
}

func (s *Store) bound(history []chat.Turn) []chat.Turn {
	if len(history) <= s.historyCap {
		return history
	}
	trimmed := make([]chat.Turn, s.historyCap)
	copy(trimmed, history[len(history)-s.historyCap:])
	return trimmed
}

func (c *Context) snapshot() Context {
	out := *c
	out.History = append([]chat.Turn(nil), c.History...)
	return out
}
