package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/aipreacher/backend/internal/model/user"
	"github.com/aipreacher/backend/internal/store"
	"github.com/aipreacher/backend/pkg/utils"
)

// Repository is the user persistence the handler needs.
type Repository interface {
	Register(ctx context.Context, reg user.Registration) (user.User, error)
	FindByEmail(ctx context.Context, email string) (user.User, error)
	UpdateMood(ctx context.Context, userID, mood string) (user.User, error)
	UpdateDenomination(ctx context.Context, userID string, denominationID int) (user.User, error)
}

// Handler serves registration, login and profile updates.
type Handler struct {
	users Repository
}

func New(users Repository) *Handler {
	return &Handler{users: users}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.handleRegister)
		r.Post("/login", h.handleLogin)
		r.Put("/{id}/mood", h.handleUpdateMood)
		r.Put("/{id}/denomination", h.handleUpdateDenomination)
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg user.Registration
	if err := utils.DecodeJSON(r, &reg); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Name == "" || reg.Email == "" {
		utils.RespondError(w, http.StatusBadRequest, "name and email are required")
		return
	}

	u, err := h.users.Register(r.Context(), reg)
	if errors.Is(err, store.ErrEmailTaken) {
		utils.RespondError(w, http.StatusBadRequest, "Email already exists with another user.")
		return
	}
	if err != nil {
		logrus.WithError(err).Error("[users] register failed")
		utils.RespondError(w, http.StatusInternalServerError, "User creation failed")
		return
	}
	utils.RespondJSON(w, http.StatusOK, u)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil || strings.TrimSpace(payload.Email) == "" {
		utils.RespondError(w, http.StatusBadRequest, "email is required")
		return
	}

	u, err := h.users.FindByEmail(r.Context(), strings.TrimSpace(payload.Email))
	h.respondUser(w, u, err, "Login failed")
}

func (h *Handler) handleUpdateMood(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Mood string `json:"mood"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.users.UpdateMood(r.Context(), chi.URLParam(r, "id"), strings.TrimSpace(payload.Mood))
	h.respondUser(w, u, err, "Mood update failed")
}

func (h *Handler) handleUpdateDenomination(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		DenominationID *int `json:"denomination_id"`
	}
	if err := utils.DecodeJSON(r, &payload); err != nil || payload.DenominationID == nil {
		utils.RespondError(w, http.StatusBadRequest, "denomination_id is required")
		return
	}

	u, err := h.users.UpdateDenomination(r.Context(), chi.URLParam(r, "id"), *payload.DenominationID)
	h.respondUser(w, u, err, "Denomination update failed")
}

func (h *Handler) respondUser(w http.ResponseWriter, u user.User, err error, failure string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, "User not found")
	case err != nil:
		logrus.WithError(err).Error("[users] " + strings.ToLower(failure))
		utils.RespondError(w, http.StatusInternalServerError, failure)
	default:
		utils.RespondJSON(w, http.StatusOK, u)
	}
}
