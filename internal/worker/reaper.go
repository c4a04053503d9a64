package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// StagedOrders exposes the cleanup operation the reaper drives.
type StagedOrders interface {
	ReapStaged(ctx context.Context, olderThan time.Duration, limit int) (int64, error)
}

// StagedReaper periodically removes staged order rows abandoned by a crash
// between staging and finalization. Rows younger than the TTL are left
// alone, since their placement may still be waiting on the remote decrement.
type StagedReaper struct {
	orders   StagedOrders
	interval time.Duration
	ttl      time.Duration
	batch    int
	logger   *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewStagedReaper constructs the reaper.
func NewStagedReaper(orders StagedOrders, interval, ttl time.Duration, batch int, logger *slog.Logger) *StagedReaper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	if batch <= 0 {
		batch = 1
	}
	return &StagedReaper{
		orders:   orders,
		interval: interval,
		ttl:      ttl,
		batch:    batch,
		logger:   logger,
	}
}

// Start launches background cleanup.
func (r *StagedReaper) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.run(runCtx)
}

// Stop waits for the cleanup loop to finish.
func (r *StagedReaper) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *StagedReaper) run(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.reap(ctx)
		}
	}
}

func (r *StagedReaper) reap(ctx context.Context) {
	removed, err := r.orders.ReapStaged(ctx, r.ttl, r.batch)
	if err != nil {
		r.logger.Error("staged order cleanup failed", slog.String("error", err.Error()))
		return
	}
	if removed > 0 {
		r.logger.Info("removed abandoned staged orders", slog.Int64("count", removed))
	}
}
