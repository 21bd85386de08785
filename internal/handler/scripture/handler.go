package scripture

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/aipreacher/backend/internal/service/scripture"
	"github.com/aipreacher/backend/pkg/utils"
)

// Lookup resolves a single verse.
type Lookup interface {
	Lookup(ctx context.Context, book, chapter, verse string) (scripture.Verse, error)
}

type Handler struct {
	verses Lookup
}

func New(verses Lookup) *Handler {
	return &Handler{verses: verses}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/scripture/{book}/{chapter}/{verse}", h.handleVerse)
}

func (h *Handler) handleVerse(w http.ResponseWriter, r *http.Request) {
	verse, err := h.verses.Lookup(r.Context(),
		chi.URLParam(r, "book"),
		chi.URLParam(r, "chapter"),
		chi.URLParam(r, "verse"),
	)
	switch {
	case errors.Is(err, scripture.ErrBookNotFound):
		utils.RespondJSON(w, http.StatusNotFound, map[string]string{"message": "Book not found"})
	case errors.Is(err, scripture.ErrChapterNotFound):
		utils.RespondJSON(w, http.StatusNotFound, map[string]string{"message": "Chapter not found"})
	case errors.Is(err, scripture.ErrVerseNotFound):
		utils.RespondJSON(w, http.StatusNotFound, map[string]string{"message": "Verse not found"})
	case err != nil:
		logrus.WithError(err).Error("[scripture] lookup failed")
		utils.RespondJSON(w, http.StatusInternalServerError, map[string]string{"message": "Unexpected error"})
	default:
		utils.RespondJSON(w, http.StatusOK, verse)
	}
}
