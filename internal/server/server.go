// Package server wires the router and builds the *http.Server.
package server

import (
	"net/http"

	"github.com/aanand-mishra/registration-form/internal/config"
	"github.com/aanand-mishra/registration-form/internal/http/handlers/registration"
	"github.com/aanand-mishra/registration-form/internal/http/middleware"
	"github.com/aanand-mishra/registration-form/internal/metrics"
	"github.com/aanand-mishra/registration-form/internal/render"
	"github.com/aanand-mishra/registration-form/internal/session"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators the router needs.
type Deps struct {
	Store          session.Store
	Renderer       *render.Renderer
	Metrics        *metrics.Metrics
	MetricsHandler http.Handler
	Session        config.Session
}

// NewRouter registers every route.
//
// Route table (session: - none, r reads an existing one, c creates one
// when missing):
//
//	GET  /                               r   → form page or confirmation
//	POST /                               c   → form post + submit
//	GET  /api/registration               r   → snapshot
//	PUT  /api/registration/fields/{path} c   → set one field
//	POST /api/registration/submit        c   → submit
//	GET  /api/registration/options       -   → date-of-birth options
//	GET  /metrics                        -   → Prometheus
//	GET  /healthz                        -   → liveness
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	opts := middleware.SessionOptions{
		CookieName: d.Session.CookieName,
		TTL:        d.Session.TTL,
		OnCreate:   func(*session.Session) { d.Metrics.IncrementSessionsStarted() },
	}
	load := middleware.LoadSession(d.Store, opts)
	create := middleware.RequireSession(d.Store, opts)

	// Reads never start a session; a visitor without one sees an empty form.
	r.With(load).Get("/", registration.Page(d.Renderer))
	r.With(create).Post("/", registration.SubmitForm(d.Renderer, d.Metrics))

	r.Route("/api/registration", func(r chi.Router) {
		r.Get("/options", registration.Options())
		r.With(load).Get("/", registration.GetState())
		r.With(create).Put("/fields/{path}", registration.SetField())
		r.With(create).Post("/submit", registration.Submit(d.Metrics))
	})

	return r
}

// New builds the HTTP server from config.
func New(cfg config.HTTPServer, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
