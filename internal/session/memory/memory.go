// Package memory provides an in-process implementation of session.Store.
//
// Sessions live in a map guarded by a mutex and disappear when they expire
// or the process exits. A session's controller is reached through
// session.Session.Do, which serialises access per session.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aanand-mishra/registration-form/internal/form"
	"github.com/aanand-mishra/registration-form/internal/schema"
	"github.com/aanand-mishra/registration-form/internal/session"
	"github.com/google/uuid"
)

// Store is the in-memory session store.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session.Session

	schema   *schema.Schema
	ttl      time.Duration
	max      int
	now      func() time.Time
	onExpire func(n int)
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithMaxSessions caps the number of live sessions. Zero or less means no
// limit.
func WithMaxSessions(n int) Option {
	return func(s *Store) { s.max = n }
}

// WithExpiryHook registers fn to be told how many sessions were dropped for
// expiry, whether by Get, Create or Sweep.
func WithExpiryHook(fn func(n int)) Option {
	return func(s *Store) { s.onExpire = fn }
}

// New returns an empty store whose sessions live for ttl.
func New(sch *schema.Schema, ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*session.Session),
		schema:   sch,
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a session with a fresh controller and a random UUID. When the
// store is at capacity, expired sessions are dropped first; if it is still
// full session.ErrCapacity is returned.
func (s *Store) Create(ctx context.Context) (*session.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("memory.Create: %w", err)
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("memory.Create: generate id: %w", err)
	}

	now := s.now()
	sess := session.New(id.String(), form.New(s.schema), now.Add(s.ttl))

	s.mu.Lock()
	removed := 0
	if s.max > 0 && len(s.sessions) >= s.max {
		removed = s.sweepLocked(now)
	}
	full := s.max > 0 && len(s.sessions) >= s.max
	if !full {
		s.sessions[sess.ID] = sess
	}
	s.mu.Unlock()

	s.expired(removed)
	if full {
		return nil, fmt.Errorf("memory.Create: %w", session.ErrCapacity)
	}
	return sess, nil
}

// Get returns the session for id. Expired sessions are removed and reported
// as session.ErrExpired.
func (s *Store) Get(ctx context.Context, id string) (*session.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("memory.Get: %w", err)
	}

	s.mu.Lock()
	sess, ok := s.sessions[id]
	stale := ok && sess.Expired(s.now())
	if stale {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	switch {
	case !ok:
		return nil, fmt.Errorf("memory.Get %s: %w", id, session.ErrNotFound)
	case stale:
		s.expired(1)
		return nil, fmt.Errorf("memory.Get %s: %w", id, session.ErrExpired)
	}
	return sess, nil
}

// Delete removes id from the store.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("memory.Delete: %w", err)
	}

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Sweep removes every session expired at now.
func (s *Store) Sweep(ctx context.Context, now time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("memory.Sweep: %w", err)
	}

	s.mu.Lock()
	removed := s.sweepLocked(now)
	s.mu.Unlock()

	s.expired(removed)
	return removed, nil
}

func (s *Store) sweepLocked(now time.Time) int {
	removed := 0
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// expired reports n dropped sessions to the hook. It must be called without
// s.mu held.
func (s *Store) expired(n int) {
	if n > 0 && s.onExpire != nil {
		s.onExpire(n)
	}
}

// Len returns the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
