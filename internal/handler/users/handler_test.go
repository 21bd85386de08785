package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aipreacher/backend/internal/model/denomination"
	"github.com/aipreacher/backend/internal/model/user"
	"github.com/aipreacher/backend/internal/store/memory"
)

func setupRouter() *chi.Mux {
	r := chi.NewRouter()
	New(memory.New(denomination.NewMemoryStore(denomination.Seed()))).RegisterRoutes(r)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeUser(t *testing.T, rec *httptest.ResponseRecorder) user.User {
	t.Helper()
	var u user.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	return u
}

func TestRegisterLoginAndUpdate(t *testing.T) {
	r := setupRouter()

	rec := do(t, r, http.MethodPost, "/users", map[string]any{
		"name": "Ruth", "email": "ruth@example.com", "mood": "sad", "denomination_id": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decodeUser(t, rec)
	require.NotEmpty(t, created.ID)
	require.NotNil(t, created.DenominationID)
	assert.Equal(t, 2, *created.DenominationID)

	rec = do(t, r, http.MethodPost, "/users/login", map[string]string{"email": "ruth@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decodeUser(t, rec).ID)

	rec = do(t, r, http.MethodPut, "/users/"+created.ID+"/mood", map[string]string{"mood": "hopeful"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hopeful", decodeUser(t, rec).Mood)

	rec = do(t, r, http.MethodPut, "/users/"+created.ID+"/denomination", map[string]int{"denomination_id": 6})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6, *decodeUser(t, rec).DenominationID)
}

func TestRegisterRejectsTakenEmail(t *testing.T) {
	r := setupRouter()

	rec := do(t, r, http.MethodPost, "/users", map[string]string{"name": "Ruth", "email": "r@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodPost, "/users", map[string]string{"name": "Naomi", "email": "r@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already exists")

	rec = do(t, r, http.MethodPost, "/users", map[string]string{"name": "", "email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownUser(t *testing.T) {
	r := setupRouter()

	rec := do(t, r, http.MethodPost, "/users/login", map[string]string{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodPut, "/users/ghost/mood", map[string]string{"mood": "sad"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodPut, "/users/ghost/denomination", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
