package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aipreacher/backend/internal/handler/chat"
	"github.com/aipreacher/backend/internal/handler/denomination"
	"github.com/aipreacher/backend/internal/handler/history"
	"github.com/aipreacher/backend/internal/handler/scripture"
	"github.com/aipreacher/backend/internal/handler/sessions"
	"github.com/aipreacher/backend/internal/handler/users"
	middlewarePkg "github.com/aipreacher/backend/internal/middleware"
	denominationModel "github.com/aipreacher/backend/internal/model/denomination"
	"github.com/aipreacher/backend/pkg/utils"
)

// Repositories bundles the persistence a router needs.
type Repositories struct {
	Users         users.Repository
	Sessions      sessions.Repository
	History       history.Repository
	Denominations denominationModel.Store
}

// Dependencies are the services the HTTP surface exposes.
type Dependencies struct {
	Repos       Repositories
	Pastor      chat.Responder
	Scripture   scripture.Lookup
	CORSOrigins []string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.CORSOrigins))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("AI Preacher API is running"))
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		users.New(deps.Repos.Users).RegisterRoutes(api)
		denomination.New(deps.Repos.Denominations).RegisterRoutes(api)
		sessions.New(deps.Repos.Sessions).RegisterRoutes(api)
		history.New(deps.Repos.History).RegisterRoutes(api)
		chat.New(deps.Pastor).RegisterRoutes(api)

		if deps.Scripture != nil {
			scripture.New(deps.Scripture).RegisterRoutes(api)
		}
	})

	return r
}
