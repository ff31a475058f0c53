package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/stafflane/stafflane/internal/accounts"
	"github.com/stafflane/stafflane/internal/auth"
	"github.com/stafflane/stafflane/internal/departments"
	"github.com/stafflane/stafflane/internal/observability"
	"github.com/stafflane/stafflane/internal/roles"
	"github.com/stafflane/stafflane/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	Authenticator      *auth.Authenticator
	AuthHandler        *auth.Handler
	AccountsHandler    *accounts.Handler
	DepartmentsHandler *departments.Handler
	RolesHandler       *roles.Handler
	JobsHandler        *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router. Everything under /api except
// /api/auth/login requires a bearer token; per-route permission checks live
// in the module handlers.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)

		r.Group(func(r chi.Router) {
			r.Use(params.Authenticator.Middleware)
			r.Route("/accounts", params.AccountsHandler.MountRoutes)
			r.Route("/departments", params.DepartmentsHandler.MountRoutes)
			r.Route("/roles", params.RolesHandler.MountRoutes)
			if params.JobsHandler != nil {
				r.Route("/jobs", params.JobsHandler.MountRoutes)
			}
		})
	})

	return r
}
