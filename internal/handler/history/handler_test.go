package history

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aipreacher/backend/internal/model/chat"
	"github.com/aipreacher/backend/internal/model/denomination"
	"github.com/aipreacher/backend/internal/store/memory"
)

func TestListHistory(t *testing.T) {
	repo := memory.New(denomination.NewMemoryStore(denomination.Seed()))
	_, err := repo.Append(context.Background(), chat.Record{
		UserID: "u", SessionID: "s1", UserMessage: "hi", AIResponse: "peace", BibleVerses: []string{"John 14:27"},
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	New(repo).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history?userId=u&sessionId=other", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "hi", rows[0]["user_message"])
	assert.Equal(t, "peace", rows[0]["ai_response"])
	assert.Equal(t, []any{"John 14:27"}, rows[0]["bible_verses"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
