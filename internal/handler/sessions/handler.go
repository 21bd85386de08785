package sessions

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/aipreacher/backend/internal/model/chat"
	"github.com/aipreacher/backend/internal/store"
	"github.com/aipreacher/backend/pkg/utils"
)

// Repository is the chat-session persistence the handler needs.
type Repository interface {
	Create(ctx context.Context, userID string) (chat.Session, error)
	ListSessions(ctx context.Context, userID string) ([]chat.Session, error)
	Rename(ctx context.Context, sessionID, title string) (chat.Session, error)
	Delete(ctx context.Context, sessionID, userID string) error
}

// Handler serves chat-session CRUD.
type Handler struct {
	sessions Repository
}

func New(sessions Repository) *Handler {
	return &Handler{sessions: sessions}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/chat_sessions", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Patch("/{sessionId}", h.handleRename)
		r.Delete("/{sessionId}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "Missing userId parameter")
		return
	}

	items, err := h.sessions.ListSessions(r.Context(), userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("[sessions] list failed")
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch chat sessions")
		return
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID string `json:"userId"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil || strings.TrimSpace(payload.UserID) == "" {
		utils.RespondError(w, http.StatusBadRequest, "Missing userId in body")
		return
	}

	session, err := h.sessions.Create(r.Context(), strings.TrimSpace(payload.UserID))
	if err != nil {
		logrus.WithError(err).WithField("user_id", payload.UserID).Error("[sessions] create failed")
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create chat session")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleRename(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title string `json:"title"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil || strings.TrimSpace(payload.Title) == "" {
		utils.RespondError(w, http.StatusBadRequest, "Missing or invalid title")
		return
	}

	sessionID := chi.URLParam(r, "sessionId")
	session, err := h.sessions.Rename(r.Context(), sessionID, strings.TrimSpace(payload.Title))
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Error("[sessions] rename failed")
		utils.RespondError(w, http.StatusInternalServerError, "Failed to rename session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, session)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "Missing userId parameter")
		return
	}

	sessionID := chi.URLParam(r, "sessionId")
	err := h.sessions.Delete(r.Context(), sessionID, userID)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondError(w, http.StatusNotFound, "Session not found for this user")
		return
	}
	if err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Error("[sessions] delete failed")
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
