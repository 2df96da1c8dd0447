// main is the entry point of the registration form server.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Build the schema, the session store, the renderer and the metrics
//  4. Register all HTTP routes
//  5. Start the session sweeper and the HTTP server in separate goroutines
//  6. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/registration-form --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/registration-form
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aanand-mishra/registration-form/internal/config"
	"github.com/aanand-mishra/registration-form/internal/metrics"
	"github.com/aanand-mishra/registration-form/internal/render"
	"github.com/aanand-mishra/registration-form/internal/schema"
	"github.com/aanand-mishra/registration-form/internal/server"
	"github.com/aanand-mishra/registration-form/internal/session"
	"github.com/aanand-mishra/registration-form/internal/session/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// Handlers log through the package-level slog functions, so the
	// configured logger becomes the default.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting registration-form",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Build Components ───────────────────────────────────────────────
	sch := schema.New()
	m := metrics.New(prometheus.DefaultRegisterer)
	store := memory.New(sch, cfg.Session.TTL,
		memory.WithMaxSessions(cfg.Session.MaxSessions),
		memory.WithExpiryHook(m.AddSessionsExpired),
	)

	renderer, err := render.New()
	if err != nil {
		log.Error("failed to initialise renderer",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	// ── 4. Register HTTP Routes ───────────────────────────────────────────
	router := server.NewRouter(server.Deps{
		Store:          store,
		Renderer:       renderer,
		Metrics:        m,
		MetricsHandler: promhttp.Handler(),
		Session:        cfg.Session,
	})

	srv := server.New(cfg.HTTPServer, router)

	// ── 5. Start Background Work ──────────────────────────────────────────
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// The store reports removals through its expiry hook.
	go session.RunSweeper(ctx, store, cfg.Session.SweepInterval, log, nil)

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ErrServerClosed is the expected result of Shutdown.
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 6. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")
	stop()

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	}
}
