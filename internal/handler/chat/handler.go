package chat

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/aipreacher/backend/internal/service/pastor"
	"github.com/aipreacher/backend/pkg/utils"
)

// Responder answers one chat message.
type Responder interface {
	Respond(ctx context.Context, req pastor.Request) (pastor.Reply, error)
}

// Handler serves the chat endpoints over HTTP and websocket.
type Handler struct {
	pastor   Responder
	upgrader websocket.Upgrader
}

func New(responder Responder) *Handler {
	return &Handler{
		pastor: responder,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the chat routes under the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/chat/ws", h.handleWebSocket)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req pastor.Request
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.pastor.Respond(r.Context(), req)
	if err != nil {
		status, message, hint := describe(err)
		utils.RespondErrorHint(w, status, message, hint)
		return
	}

	utils.RespondJSON(w, http.StatusOK, reply)
}

// describe maps an orchestrator error onto status, message and retry hint.
func describe(err error) (int, string, string) {
	var perr *pastor.Error
	if !errors.As(err, &perr) {
		perr = &pastor.Error{Kind: pastor.KindInternal, Err: err}
	}

	switch perr.Kind {
	case pastor.KindValidation:
		return http.StatusBadRequest, perr.Message(), perr.Hint()
	case pastor.KindNotFound:
		return http.StatusNotFound, perr.Message(), perr.Hint()
	case pastor.KindGenerationUnavailable:
		return http.StatusServiceUnavailable, perr.Message(), perr.Hint()
	default:
		return http.StatusInternalServerError, perr.Message(), perr.Hint()
	}
}
