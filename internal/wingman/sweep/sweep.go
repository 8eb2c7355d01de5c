// Package sweep prunes notification history older than the retention window.
package sweep

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/wingman/internal/core/clock"
	"github.com/hay-kot/wingman/internal/core/notify"
)

// DefaultInterval is how often Start prunes history.
const DefaultInterval = 30 * time.Minute

// Start periodically deletes notifications older than retention.
// It blocks until the context is cancelled.
func Start(ctx context.Context, store notify.Store, clk clock.Clock, retention, interval time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := Once(ctx, store, clk, retention)
			if err != nil {
				log.Warn().Err(err).Dur("retention", retention).Msg("notification sweep failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("pruned notification history")
			}
		}
	}
}

// Once deletes notifications created before now minus retention and returns
// how many were removed.
func Once(ctx context.Context, store notify.Store, clk clock.Clock, retention time.Duration) (int64, error) {
	n, err := store.DeleteBefore(ctx, clk.Now().Add(-retention))
	if err != nil {
		return 0, err
	}
	return n, nil
}
