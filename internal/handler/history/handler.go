package history

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/aipreacher/backend/internal/model/chat"
	"github.com/aipreacher/backend/pkg/utils"
)

// Repository lists stored exchanges.
type Repository interface {
	ListRecords(ctx context.Context, userID, sessionID string) ([]chat.Record, error)
}

type Handler struct {
	history Repository
}

func New(history Repository) *Handler {
	return &Handler{history: history}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/history", h.handleList)
}

// handleList returns a session's exchanges, or the user's whole history when
// the session has none.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "Missing userId")
		return
	}
	sessionID := strings.TrimSpace(r.URL.Query().Get("sessionId"))

	records, err := h.history.ListRecords(r.Context(), userID, sessionID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"user_id": userID, "session_id": sessionID}).Error("[history] fetch failed")
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}
	utils.RespondJSON(w, http.StatusOK, records)
}
