package sessions

import (
	"bytes"
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

func setupRouter() *chi.Mux {
	r := chi.NewRouter()
	New(memory.New(denomination.NewMemoryStore(denomination.Seed()))).RegisterRoutes(r)
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSessionLifecycle(t *testing.T) {
	r := setupRouter()

	rec := do(r, http.MethodPost, "/chat_sessions", map[string]string{"userId": "u1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created chat.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, chat.DefaultTitle, created.Title)
	assert.Contains(t, rec.Body.String(), `"session_id"`)

	rec = do(r, http.MethodPatch, "/chat_sessions/"+created.ID, map[string]string{"title": "  Grief  "})
	require.Equal(t, http.StatusOK, rec.Code)
	var renamed chat.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &renamed))
	assert.Equal(t, "Grief", renamed.Title)

	rec = do(r, http.MethodGet, "/chat_sessions?userId=u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []chat.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)

	rec = do(r, http.MethodDelete, "/chat_sessions/"+created.ID+"?userId=u2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(r, http.MethodDelete, "/chat_sessions/"+created.ID+"?userId=u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())
}

func TestSessionValidation(t *testing.T) {
	r := setupRouter()

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/chat_sessions", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/chat_sessions", map[string]string{}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPatch, "/chat_sessions/x", map[string]string{"title": " "}).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPatch, "/chat_sessions/x", map[string]string{"title": "t"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodDelete, "/chat_sessions/x", nil).Code)
}
