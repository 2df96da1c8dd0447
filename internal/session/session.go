// Package session defines the Store contract that keeps one form controller
// per browser session, and the Session value handed to HTTP handlers.
//
// Handlers depend only on the Store interface. The in-memory backend lives in
// session/memory; nothing is written to disk.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aanand-mishra/registration-form/internal/form"
)

var (
	// ErrNotFound means no session exists for the id.
	ErrNotFound = errors.New("session not found")

	// ErrExpired means the session existed but its TTL has passed.
	ErrExpired = errors.New("session expired")

	// ErrCapacity means the store holds as many live sessions as it may.
	ErrCapacity = errors.New("session store is full")
)

// Store is the session contract.
type Store interface {
	// Create starts a new session with an empty controller, or returns
	// ErrCapacity when no more sessions may be started.
	Create(ctx context.Context) (*Session, error)

	// Get returns the live session for id, or ErrNotFound / ErrExpired.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes the session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Sweep drops every session that expired before now and returns how
	// many were removed.
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// Session pairs an id with the controller it owns.
type Session struct {
	ID        string
	ExpiresAt time.Time

	mu         sync.Mutex
	controller *form.Controller
}

// New wraps controller in a session.
func New(id string, controller *form.Controller, expiresAt time.Time) *Session {
	return &Session{
		ID:         id,
		ExpiresAt:  expiresAt,
		controller: controller,
	}
}

// Do runs fn with exclusive access to the session's controller.
func (s *Session) Do(fn func(c *form.Controller) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.controller)
}

// Snapshot is a locked read of the controller.
func (s *Session) Snapshot() form.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller.Snapshot()
}

// Expired reports whether the session is past its TTL at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type ctxKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by WithSession, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(ctxKey{}).(*Session)
	return s
}
