package session_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/registration-form/internal/schema"
	"github.com/aanand-mishra/registration-form/internal/session"
	"github.com/aanand-mishra/registration-form/internal/session/memory"
)

func TestRunSweeperRemovesExpiredSessions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := memory.New(schema.New(), time.Millisecond)
	sess, err := store.Create(ctx)
	require.NoError(t, err)

	var swept atomic.Int64
	done := make(chan struct{})
	go func() {
		defer close(done)
		session.RunSweeper(ctx, store, 5*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)), func(n int) {
			swept.Add(int64(n))
		})
	}()

	require.Eventually(t, func() bool { return swept.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, store.Len())

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
