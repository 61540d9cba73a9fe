// Package worker holds the background jobs started by the server.
package worker

import (
	"context"
	"log/slog"
	"time"
)

// SweepStore defines the store operations needed by the expiry sweeper.
type SweepStore interface {
	PurgeExpiredResetCodes(ctx context.Context, now time.Time) (int64, error)
	PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// ExpirySweeper periodically deletes expired reset codes and sessions.
type ExpirySweeper struct {
	store    SweepStore
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewExpirySweeper creates a sweeper running every interval.
func NewExpirySweeper(store SweepStore, interval time.Duration, logger *slog.Logger) *ExpirySweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpirySweeper{
		store:    store,
		interval: interval,
		logger:   logger.With("component", "worker", "worker", "expiry-sweeper"),
		now:      time.Now,
	}
}

// Run starts the worker loop. Blocks until ctx is cancelled.
// The first sweep happens one interval after start.
func (w *ExpirySweeper) Run(ctx context.Context) {
	w.logger.Info("worker started", "interval", w.interval.String())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker stopped", "reason", "context_cancelled")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep runs a single purge cycle. A failure purging one kind of record
// does not stop the other.
func (w *ExpirySweeper) Sweep(ctx context.Context) {
	start := w.now()

	codes, err := w.store.PurgeExpiredResetCodes(ctx, start)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Error("purge reset codes failed", "action", "sweep_failed", "error", err)
	}

	sessions, err := w.store.PurgeExpiredSessions(ctx, start)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Error("purge sessions failed", "action", "sweep_failed", "error", err)
	}

	w.logger.Info("sweep completed",
		"action", "sweep_complete",
		"reset_codes", codes,
		"sessions", sessions,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
