// Package pastor runs one chat exchange end to end: analysis, session state,
// prompt assembly, generation, citation extraction and persistence.
package pastor

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aipreacher/backend/internal/analysis/emotion"
	"github.com/aipreacher/backend/internal/analysis/intent"
	"github.com/aipreacher/backend/internal/analysis/scripture"
	"github.com/aipreacher/backend/internal/model/chat"
	"github.com/aipreacher/backend/internal/model/user"
	"github.com/aipreacher/backend/internal/service/ai"
	sessions "github.com/aipreacher/backend/internal/service/chat"
	"github.com/aipreacher/backend/internal/store"
)

// PersistWarning accompanies a reply whose exchange could not be saved.
const PersistWarning = "Your reply was generated but could not be saved to your history."

// DefaultRehydrateLimit is how many stored exchanges seed a new live session.
const DefaultRehydrateLimit = 20

// UserDirectory resolves a user's pastoral profile.
type UserDirectory interface {
	Lookup(ctx context.Context, userID string) (user.Profile, error)
}

// SessionRegistry checks and refreshes durable chat sessions.
type SessionRegistry interface {
	Exists(ctx context.Context, sessionID, userID string) (bool, error)
	Touch(ctx context.Context, sessionID string) error
}

// HistoryLog stores and replays exchanges.
type HistoryLog interface {
	Append(ctx context.Context, record chat.Record) (chat.Record, error)
	Load(ctx context.Context, userID, sessionID string, limit int) ([]chat.Turn, error)
}

// Request is one inbound chat message.
type Request struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// Reply is the chat response. ChatID and Timestamp are absent when Warning is set.
type Reply struct {
	Reply     string        `json:"reply"`
	ChatID    string        `json:"chatId,omitempty"`
	Timestamp *time.Time    `json:"timestamp,omitempty"`
	Warning   string        `json:"warning,omitempty"`
	Intent    intent.Type   `json:"intent"`
	Mood      emotion.Label `json:"mood"`
	Verses    []string      `json:"bibleVerses"`
}

// Options tunes the orchestrator.
type Options struct {
	ContextWindow  int
	RehydrateLimit int
}

// Service sequences a chat request.
type Service struct {
	users     UserDirectory
	sessions  SessionRegistry
	history   HistoryLog
	live      *sessions.Store
	generator ai.Generator
	window    int
	rehydrate int
}

// NewService wires the orchestrator to its collaborators.
func NewService(users UserDirectory, registry SessionRegistry, history HistoryLog, live *sessions.Store, generator ai.Generator, opts Options) *Service {
	if opts.ContextWindow <= 0 {
		opts.ContextWindow = ai.DefaultContextWindow
	}
	if opts.RehydrateLimit <= 0 {
		opts.RehydrateLimit = DefaultRehydrateLimit
	}
	return &Service{
		users:     users,
		sessions:  registry,
		history:   history,
		live:      live,
		generator: generator,
		window:    opts.ContextWindow,
		rehydrate: opts.RehydrateLimit,
	}
}

// Respond answers a single message. Failures are returned as *Error; a
// persistence fault after generation is reported through Reply.Warning.
func (s *Service) Respond(ctx context.Context, req Request) (Reply, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.UserID == "" || req.SessionID == "" || strings.TrimSpace(req.Message) == "" {
		return Reply{}, validation("userId, sessionId and message are required")
	}

	logger := logrus.WithFields(logrus.Fields{"user_id": req.UserID, "session_id": req.SessionID})
	fail := func(err *Error) (Reply, error) {
		entry := logger.WithField("stage", err.Stage)
		if err.Err != nil {
			entry = entry.WithError(err.Err)
		}
		if err.Kind == KindInternal || err.Kind == KindGenerationUnavailable {
			entry.Error("[chat] request failed")
		} else {
			entry.Info("[chat] request rejected")
		}
		return Reply{}, err
	}

	unlock := s.live.Lock(req.SessionID)
	defer unlock()

	profile, err := s.users.Lookup(ctx, req.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return fail(notFound(StageLoadUser, "User not found"))
	}
	if err != nil {
		return fail(internal(StageLoadUser, err))
	}

	exists, err := s.sessions.Exists(ctx, req.SessionID, req.UserID)
	if err != nil {
		return fail(internal(StageLoadSession, err))
	}
	if !exists {
		return fail(notFound(StageLoadSession, "Session not found"))
	}

	analysis := intent.Analyze(req.Message)
	finalMood := ai.ResolveMood(analysis.Mood, profile.StoredMood)

	live := s.loadLive(ctx, logger, req, finalMood)
	if err := s.advance(live, analysis, finalMood); err != nil {
		return fail(internal(StageUpdateSession, err))
	}
	live, _ = s.live.Get(req.SessionID)

	instruction := ai.BuildPrompt(ai.PromptInput{
		User:     profile,
		Analysis: analysis,
		Session:  live,
		Message:  req.Message,
		Window:   s.window,
	}).Render()

	text, err := s.generator.Generate(ctx, instruction)
	if err != nil {
		return fail(&Error{Kind: KindGenerationUnavailable, Stage: StageGenerate, Err: err})
	}

	now := time.Now().UTC()
	if err := s.live.Append(req.SessionID,
		chat.Turn{Sender: chat.SenderUser, Text: req.Message, CreatedAt: now},
		chat.Turn{Sender: chat.SenderPastor, Text: text, CreatedAt: now},
	); err != nil {
		logger.WithError(err).WithField("stage", StageUpdateSession).Warn("[chat] live session vanished before append")
	}

	verses := scripture.ExtractVerses(text)
	reply := Reply{
		Reply:  text,
		Intent: analysis.Intent,
		Mood:   finalMood,
		Verses: verses,
	}

	record, err := s.history.Append(ctx, chat.Record{
		UserID:      req.UserID,
		SessionID:   req.SessionID,
		UserMessage: req.Message,
		AIResponse:  text,
		BibleVerses: verses,
		Intent:      string(analysis.Intent),
		Mood:        string(finalMood),
	})
	if err != nil {
		logger.WithError(err).WithField("stage", StagePersist).Warn("[chat] exchange not persisted")
		reply.Warning = PersistWarning
		return reply, nil
	}
	if err := s.sessions.Touch(ctx, req.SessionID); err != nil {
		logger.WithError(err).WithField("stage", StagePersist).Warn("[chat] session timestamp not refreshed")
	}

	reply.ChatID = record.ID
	createdAt := record.CreatedAt
	reply.Timestamp = &createdAt

	logger.WithFields(logrus.Fields{
		"intent": analysis.Intent,
		"mood":   finalMood,
		"verses": len(verses),
	}).Info("[chat] reply delivered")
	return reply, nil
}

// loadLive returns the cached context, creating it from stored history when
// absent or owned by a different user.
func (s *Service) loadLive(ctx context.Context, logger *logrus.Entry, req Request, mood emotion.Label) sessions.Context {
	if live, ok := s.live.Get(req.SessionID); ok && live.UserID == req.UserID {
		return live
	}

	turns, err := s.history.Load(ctx, req.UserID, req.SessionID, s.rehydrate)
	if err != nil {
		logger.WithError(err).WithField("stage", StageLoadSession).Warn("[chat] history rehydration skipped")
		turns = nil
	}
	return s.live.Create(req.SessionID, req.UserID, mood, turns)
}

// advance applies the theme and mood policy for one analysed message.
func (s *Service) advance(live sessions.Context, analysis intent.Result, finalMood emotion.Label) error {
	id := live.SessionID

	if live.Theme == sessions.ThemeConfession && analysis.Intent != intent.Confession {
		if err := s.live.ClearTheme(id); err != nil {
			return err
		}
	}

	switch {
	case analysis.Intent == intent.Confession:
		if err := s.live.SetTheme(id, sessions.ThemeConfession); err != nil {
			return err
		}
		if err := s.live.SetEmotionalState(id, finalMood); err != nil {
			return err
		}
	case analysis.Intent == intent.Gratitude || analysis.IsEmotional:
		if err := s.live.SetEmotionalState(id, finalMood); err != nil {
			return err
		}
	}
	return s.live.Touch(id)
}
