// Package maintenance keeps the database small: stale cache blobs and old
// practice attempts are removed at most once a day.
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rttrainer/pkg/db"
	"rttrainer/pkg/store"
)

const lastRunStateKey = "maintenance_last_run"

// Options control what is pruned.
type Options struct {
	CacheTTL         time.Duration
	AttemptRetention time.Duration // zero keeps attempts forever
	// MinInterval skips the run when the previous one is more recent.
	MinInterval time.Duration
}

// Run executes all maintenance tasks. Failures of single tasks are logged
// and do not stop startup.
// It blocks until completion.
func Run(ctx context.Context, s store.StateStore, d *db.DB, opts Options) error {
	now := time.Now().UTC()
	if last, ok := s.GetState(ctx, lastRunStateKey); ok && opts.MinInterval > 0 {
		if t, err := time.Parse(time.RFC3339, last); err == nil && now.Sub(t) < opts.MinInterval {
			slog.Debug("Skipping database maintenance", "last_run", last)
			return nil
		}
	}

	slog.Info("Starting database maintenance...")

	if opts.CacheTTL > 0 {
		if n, err := d.PruneCache(opts.CacheTTL); err != nil {
			slog.Error("Cache pruning failed", "error", err)
		} else {
			slog.Info("Cache pruning completed", "removed", n)
		}
	}

	if opts.AttemptRetention > 0 {
		if n, err := d.PruneAttempts(opts.AttemptRetention); err != nil {
			slog.Error("Attempt pruning failed", "error", err)
		} else {
			slog.Info("Attempt pruning completed", "removed", n)
		}
	}

	if _, err := d.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
		slog.Warn("PRAGMA optimize failed", "error", err)
	}

	if err := s.SetState(ctx, lastRunStateKey, now.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to update state: %w", err)
	}
	return nil
}
