package tracker

import (
	"context"
	"log/slog"
	"time"
)

// RetentionWorker periodically deletes ledger entries past the retention
// window. With retentionDays <= 0 the worker is a no-op and history is kept
// forever, which is the default posture for an audit trail.
type RetentionWorker struct {
	store     *HistoryStore
	retention time.Duration
	interval  time.Duration
	logger    *slog.Logger
}

// NewRetentionWorker creates a worker that runs one cleanup pass per day.
func NewRetentionWorker(store *HistoryStore, retentionDays int, logger *slog.Logger) *RetentionWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetentionWorker{
		store:     store,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		interval:  24 * time.Hour,
		logger:    logger,
	}
}

// Run starts the worker. It returns when the context is cancelled.
func (w *RetentionWorker) Run(ctx context.Context) {
	if w.store == nil || w.retention <= 0 {
		w.logger.Info("history retention worker disabled")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("history retention worker started",
		"retentionDays", int(w.retention.Hours()/24),
		"interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("history retention worker stopped")
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *RetentionWorker) cleanup() {
	cutoff := time.Now().Add(-w.retention)
	deleted, err := w.store.DeleteOlderThan(cutoff)
	if err != nil {
		w.logger.Error("history retention cleanup failed", "error", err)
	} else if deleted > 0 {
		w.logger.Info("history retention cleanup completed",
			"deleted", deleted,
			"cutoff", cutoff.Format(time.RFC3339))
	}
}
