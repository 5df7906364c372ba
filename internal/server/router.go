// Package server assembles the HTTP router from the module handlers.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Essateric/chaiiwala-sub001/internal/modules/access"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/auth"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/calendar"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/joblog"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/store"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/user"
)

// Pinger reports database health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the services behind the router. MetricsHandler is optional.
type Deps struct {
	Issuer   *access.TokenIssuer
	Users    user.Service
	Auth     auth.Service
	Stores   store.Service
	Jobs     joblog.Service
	Calendar calendar.Service
	DB       Pinger

	MetricsHandler http.Handler
	MetricsPath    string
}

// NewRouter wires public and authenticated routes.
func NewRouter(d Deps) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// ── Public ──────────────────────────────────────────────
	router.Get("/health", health(d.DB))
	auth.NewHandler(d.Auth).RegisterRoutes(router)
	if d.MetricsHandler != nil && d.MetricsPath != "" {
		router.Handle(d.MetricsPath, d.MetricsHandler)
	}

	// ── Authenticated ───────────────────────────────────────
	router.Group(func(r chi.Router) {
		r.Use(access.Middleware(d.Issuer))
		user.NewHandler(d.Users).RegisterRoutes(r)
		store.NewHandler(d.Stores).RegisterRoutes(r)
		joblog.NewHandler(d.Jobs).RegisterRoutes(r)
		calendar.NewHandler(d.Calendar).RegisterRoutes(r)
	})
	return router
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
