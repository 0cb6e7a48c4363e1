package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/chatterhq/chatter/internal/domain"
	"github.com/chatterhq/chatter/internal/observability/metrics"
	"github.com/chatterhq/chatter/internal/reliability/retry"
)

// LifecycleWorker periodically promotes posts that have sat in pending
// longer than the activation delay to active.
type LifecycleWorker struct {
	posts           domain.PostRepository
	logger          *slog.Logger
	interval        time.Duration
	activationDelay time.Duration
}

// NewLifecycleWorker creates a new lifecycle worker.
func NewLifecycleWorker(posts domain.PostRepository, logger *slog.Logger, interval, activationDelay time.Duration) *LifecycleWorker {
	return &LifecycleWorker{
		posts:           posts,
		logger:          logger,
		interval:        interval,
		activationDelay: activationDelay,
	}
}

// Start begins the lifecycle loop. It runs until the context is
// cancelled.
func (w *LifecycleWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("lifecycle worker started",
		slog.Duration("interval", w.interval),
		slog.Duration("activation_delay", w.activationDelay),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("lifecycle worker stopped")
			return
		case <-ticker.C:
			w.activateDuePosts(ctx)
		}
	}
}

// activateDuePosts promotes every pending post older than the activation
// delay in one store call.
func (w *LifecycleWorker) activateDuePosts(ctx context.Context) {
	cutoff := time.Now().Add(-w.activationDelay)

	n, err := retry.Do(ctx, w.logger, "activate pending posts", 3, func(ctx context.Context) (int64, error) {
		return w.posts.ActivatePendingBefore(ctx, cutoff)
	})
	if err != nil {
		w.logger.Error("failed to activate pending posts",
			slog.String("error", err.Error()),
		)
		return
	}

	if n > 0 {
		metrics.ObservePostsActivated(n)
		w.logger.Info("posts activated", slog.Int64("count", n))
	}
}
