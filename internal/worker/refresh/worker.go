package refresh

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type catalogLoader interface {
	LoadAll(ctx context.Context)
}

type orderRefresher interface {
	RefreshOrders(ctx context.Context) error
}

// Worker periodically reloads the catalog and the order list so long-lived
// sessions do not drift from the backend.
type Worker struct {
	catalog  catalogLoader
	orders   orderRefresher
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewWorker creates a refresh worker. A non-positive interval falls back to
// catalog.refresh_interval_seconds, then to five minutes.
func NewWorker(catalog catalogLoader, orders orderRefresher, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = time.Duration(viper.GetInt("catalog.refresh_interval_seconds")) * time.Second
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Worker{
		catalog:  catalog,
		orders:   orders,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start blocks until ctx is done or Stop is called. Either one also cancels a
// refresh that is in flight.
func (w *Worker) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-w.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.Info("Refresh worker started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Refresh worker shutting down")

			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

// Stop stops the worker. It is safe to call more than once.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

func (w *Worker) refresh(ctx context.Context) {
	w.catalog.LoadAll(ctx)
	if err := w.orders.RefreshOrders(ctx); err != nil {
		slog.WarnContext(ctx, "Failed to refresh orders", "error", err)
	}
	slog.DebugContext(ctx, "Reference data refreshed")
}
