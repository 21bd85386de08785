package chat_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aipreacher/backend/internal/analysis/emotion"
	"github.com/aipreacher/backend/internal/model/chat"
	sessions "github.com/aipreacher/backend/internal/service/chat"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func TestStoreCreateAndGet(t *testing.T) {
	store := sessions.NewStore(sessions.Options{Clock: newClock()})

	_, ok := store.Get("s1")
	assert.False(t, ok)

	seed := []chat.Turn{{Sender: chat.SenderUser, Text: "hello"}}
	created := store.Create("s1", "u1", emotion.Sad, seed)
	assert.Equal(t, emotion.Sad, created.EmotionalState)
	assert.Equal(t, sessions.ThemeNone, created.Theme)

	got, ok := store.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, seed, got.History)

	got.History[0].Text = "mutated"
	again, _ := store.Get("s1")
	assert.Equal(t, "hello", again.History[0].Text)
}

func TestStoreHistoryBound(t *testing.T) {
	store := sessions.NewStore(sessions.Options{HistoryCap: 4, Clock: newClock()})
	store.Create("s", "u", emotion.Neutral, nil)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append("s",
			chat.Turn{Sender: chat.SenderUser, Text: fmt.Sprintf("q%d", i)},
			chat.Turn{Sender: chat.SenderPastor, Text: fmt.Sprintf("a%d", i)},
		))
	}

	got, _ := store.Get("s")
	require.Len(t, got.History, 4)
	texts := make([]string, 0, len(got.History))
	for _, turn := range got.History {
		texts = append(texts, turn.Text)
	}
	assert.Equal(t, []string{"q3", "a3", "q4", "a4"}, texts)
}

func TestStoreCreateBoundsRehydratedHistory(t *testing.T) {
	store := sessions.NewStore(sessions.Options{HistoryCap: 2, Clock: newClock()})
	got := store.Create("s", "u", emotion.Neutral, []chat.Turn{{Text: "a"}, {Text: "b"}, {Text: "c"}})
	require.Len(t, got.History, 2)
	assert.Equal(t, "b", got.History[0].Text)
}

func TestStoreThemeAndMood(t *testing.T) {
	store := sessions.NewStore(sessions.Options{Clock: newClock()})
	store.Create("s", "u", emotion.Neutral, nil)

	require.NoError(t, store.SetTheme("s", sessions.ThemeConfession))
	require.NoError(t, store.SetEmotionalState("s", emotion.Repentant))
	got, _ := store.Get("s")
	assert.Equal(t, sessions.ThemeConfession, got.Theme)
	assert.Equal(t, emotion.Repentant, got.EmotionalState)

	require.NoError(t, store.ClearTheme("s"))
	got, _ = store.Get("s")
	assert.Equal(t, sessions.ThemeNone, got.Theme)

	assert.ErrorIs(t, store.SetTheme("missing", sessions.ThemeConfession), sessions.ErrSessionNotFound)
	assert.ErrorIs(t, store.Touch("missing"), sessions.ErrSessionNotFound)
}

func TestStoreSweepEvictsExpiredSessions(t *testing.T) {
	clock := newClock()
	store := sessions.NewStore(sessions.Options{TTL: 2 * time.Hour, Clock: clock})

	store.Create("stale", "u", emotion.Neutral, nil)
	store.Create("fresh", "u", emotion.Neutral, nil)

	clock.Advance(time.Hour)
	require.NoError(t, store.Touch("fresh"))

	clock.Advance(time.Hour + time.Minute)
	assert.Equal(t, 1, store.Sweep())

	_, ok := store.Get("stale")
	assert.False(t, ok)
	_, ok = store.Get("fresh")
	assert.True(t, ok)
	assert.Equal(t, 1, store.Len())
}

func TestStoreLockSerialisesSameSession(t *testing.T) {
	store := sessions.NewStore(sessions.Options{Clock: newClock()})
	store.Create("s", "u", emotion.Neutral, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			unlock := store.Lock("s")
			defer unlock()
			before, _ := store.Get("s")
			_ = store.Append("s", chat.Turn{Text: fmt.Sprintf("%d", i)})
			after, _ := store.Get("s")
			assert.Equal(t, len(before.History)+1, len(after.History))
		}(i)
	}
	wg.Wait()

	got, _ := store.Get("s")
	assert.Len(t, got.History, 20)
}

func TestStoreStartStop(t *testing.T) {
	store := sessions.NewStore(sessions.Options{SweepSchedule: "@every 1h"})
	require.NoError(t, store.Start())
	assert.ErrorIs(t, store.Start(), sessions.ErrAlreadyStarted)
	store.Stop()
	store.Stop()
	require.NoError(t, store.Start())
	store.Stop()
}

func TestStoreStartRejectsBadSchedule(t *testing.T) {
	store := sessions.NewStore(sessions.Options{SweepSchedule: "not a schedule"})
	assert.Error(t, store.Start())
}
