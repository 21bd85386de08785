package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorHint(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorHint(rec, http.StatusServiceUnavailable, "down", "try later")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"error": "down", "message": "try later"}, body)

	rec = httptest.NewRecorder()
	RespondErrorHint(rec, http.StatusBadRequest, "bad", "")
	var withoutHint map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &withoutHint))
	assert.Equal(t, map[string]string{"error": "bad"}, withoutHint)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ruth"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "Ruth", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.ErrorIs(t, DecodeJSON(req, &dst), ErrEmptyBody)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	assert.Error(t, DecodeJSON(req, &dst))
}
