package denomination

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/aipreacher/backend/internal/model/denomination"
	"github.com/aipreacher/backend/pkg/utils"
)

// Handler serves the denomination catalogue.
type Handler struct {
	denominations denomination.Store
}

func New(denominations denomination.Store) *Handler {
	return &Handler{denominations: denominations}
}

// RegisterRoutes mounts GET /denominations.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/denominations", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.denominations.List(r.Context())
	if err != nil {
		logrus.WithError(err).Error("[denominations] list failed")
		utils.RespondError(w, http.StatusInternalServerError, "Could not load denominations")
		return
	}
	utils.RespondJSON(w, http.StatusOK, items)
}
