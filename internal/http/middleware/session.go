// Package middleware holds the HTTP middleware specific to the registration
// form. Generic middleware (request ids, panic recovery) comes from chi.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/registration-form/internal/session"
)

// SessionOptions configures the session cookie.
type SessionOptions struct {
	CookieName string
	TTL        time.Duration
	// OnCreate, when set, is called after every new session.
	OnCreate func(*session.Session)
}

// LoadSession attaches the caller's form session to the request context when
// the cookie names a live one. Requests without a usable cookie pass through
// with no session; nothing is created.
func LoadSession(store session.Store, opts SessionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := lookup(r, store, opts.CookieName)
			if err != nil {
				slog.Error("failed to load session", slog.String("error", err.Error()))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if sess != nil {
				r = r.WithContext(session.WithSession(r.Context(), sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession is LoadSession for requests that change form state: when
// the cookie is missing, unknown or expired a new session is started and the
// cookie set. A full store answers 503.
func RequireSession(store session.Store, opts SessionOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sess, err := lookup(r, store, opts.CookieName)
			if err != nil {
				slog.Error("failed to load session", slog.String("error", err.Error()))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if sess != nil {
				next.ServeHTTP(w, r.WithContext(session.WithSession(ctx, sess)))
				return
			}

			sess, err = start(ctx, store, opts)
			switch {
			case errors.Is(err, session.ErrCapacity):
				slog.Warn("session store full, refusing new session")
				w.Header().Set("Retry-After", "60")
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			case err != nil:
				slog.Error("failed to create session", slog.String("error", err.Error()))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			http.SetCookie(w, &http.Cookie{
				Name:     opts.CookieName,
				Value:    sess.ID,
				Path:     "/",
				MaxAge:   int(opts.TTL / time.Second),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			slog.Debug("session started", slog.String("session", sess.ID))
			next.ServeHTTP(w, r.WithContext(session.WithSession(ctx, sess)))
		})
	}
}

// lookup returns the live session named by the cookie. A missing, unknown or
// expired cookie yields a nil session and a nil error.
func lookup(r *http.Request, store session.Store, cookieName string) (*session.Session, error) {
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return nil, nil
	}

	sess, err := store.Get(r.Context(), c.Value)
	switch {
	case err == nil:
		return sess, nil
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
		slog.Debug("session cookie not usable", slog.String("reason", err.Error()))
		return nil, nil
	default:
		return nil, err
	}
}

func start(ctx context.Context, store session.Store, opts SessionOptions) (*session.Session, error) {
	sess, err := store.Create(ctx)
	if err != nil {
		return nil, err
	}
	if opts.OnCreate != nil {
		opts.OnCreate(sess)
	}
	return sess, nil
}
