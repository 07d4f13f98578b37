package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/hyperengineering/attire/internal/catalog"
	"github.com/hyperengineering/attire/internal/metrics"
	"github.com/hyperengineering/attire/internal/types"
)

// SnapshotTarget receives reloaded catalog items.
type SnapshotTarget interface {
	Replace(items []types.ClothingItem) error
	Len() int
}

// CatalogReloadWorker periodically re-reads the catalog source and swaps the snapshot.
type CatalogReloadWorker struct {
	loader   catalog.Loader
	target   SnapshotTarget
	interval time.Duration
}

// NewCatalogReloadWorker creates a worker with the given source, target, and interval.
func NewCatalogReloadWorker(loader catalog.Loader, target SnapshotTarget, interval time.Duration) *CatalogReloadWorker {
	return &CatalogReloadWorker{
		loader:   loader,
		target:   target,
		interval: interval,
	}
}

// Run starts the worker loop. Blocks until ctx is cancelled.
// Does NOT run immediately on start; the catalog is loaded before serving.
func (w *CatalogReloadWorker) Run(ctx context.Context) {
	slog.Info("worker started",
		"component", "worker",
		"worker", "catalog-reload",
		"interval", w.interval.String(),
		"source", w.loader.Describe(),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("worker stopped",
				"component", "worker",
				"worker", "catalog-reload",
				"reason", "context_cancelled",
			)
			return
		case <-ticker.C:
			w.reload(ctx)
		}
	}
}

// reload executes a single reload cycle. Failures keep the previous snapshot.
func (w *CatalogReloadWorker) reload(ctx context.Context) {
	start := time.Now()

	items, err := w.loader.Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		metrics.CatalogReloads.WithLabelValues(metrics.OutcomeFailure).Inc()
		slog.Error("catalog reload failed",
			"component", "worker",
			"action", "reload_failed",
			"error", err,
		)
		return
	}

	if err := w.target.Replace(items); err != nil {
		metrics.CatalogReloads.WithLabelValues(metrics.OutcomeInvalid).Inc()
		slog.Error("catalog reload rejected",
			"component", "worker",
			"action", "reload_rejected",
			"error", err,
		)
		return
	}

	count := w.target.Len()
	metrics.CatalogReloads.WithLabelValues(metrics.OutcomeSuccess).Inc()
	metrics.CatalogItems.Set(float64(count))
	slog.Info("catalog reloaded",
		"component", "worker",
		"action", "reload_complete",
		"items", count,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
