package session

import (
	"context"
	"log/slog"
	"time"
)

// RunSweeper calls store.Sweep every interval until ctx is cancelled.
// onSweep, when non-nil, receives the number of sessions removed by each
// pass.
func RunSweeper(ctx context.Context, store Store, interval time.Duration, log *slog.Logger, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := store.Sweep(ctx, now)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Error("session sweep failed", slog.String("error", err.Error()))
				continue
			}
			if removed > 0 {
				log.Debug("expired sessions removed", slog.Int("count", removed))
			}
			if onSweep != nil {
				onSweep(removed)
			}
		}
	}
}
