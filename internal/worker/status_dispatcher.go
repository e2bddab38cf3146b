package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/polkiloo/procurement/internal/domain/model"
)

// StatusFacade exposes the subset of application functionality required by the worker.
type StatusFacade interface {
	PendingStatusEvents(ctx context.Context, limit int) ([]model.StatusEvent, error)
	DispatchStatusEvent(ctx context.Context, event model.StatusEvent) error
}

// StatusDispatcher polls the status outbox and publishes events concurrently.
type StatusDispatcher struct {
	facade       StatusFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *zap.Logger

	jobs   chan model.StatusEvent
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewStatusDispatcher constructs the status event worker pool.
func NewStatusDispatcher(facade StatusFacade, pollInterval time.Duration, batchSize, workers int, logger *zap.Logger) *StatusDispatcher {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &StatusDispatcher{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.StatusEvent, batchSize*workers),
	}
}

// Start launches background processing.
func (d *StatusDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}

	d.wg.Add(1)
	go d.dispatch(runCtx)
}

// Stop waits for all workers to finish. Events claimed but not yet published
// are picked up again once their claim expires.
func (d *StatusDispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *StatusDispatcher) dispatch(ctx context.Context) {
	defer d.wg.Done()
	defer close(d.jobs)
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.fetchAndDispatch(ctx)
		}
	}
}

func (d *StatusDispatcher) fetchAndDispatch(ctx context.Context) {
	events, err := d.facade.PendingStatusEvents(ctx, d.batchSize)
	if err != nil {
		d.logger.Error("fetch pending status events failed", zap.Error(err))
		return
	}
	for _, ev := range events {
		select {
		case <-ctx.Done():
			return
		case d.jobs <- ev:
		}
	}
}

func (d *StatusDispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-d.jobs:
			if !ok {
				return
			}
			d.handleEvent(ctx, ev)
		}
	}
}

func (d *StatusDispatcher) handleEvent(ctx context.Context, ev model.StatusEvent) {
	if err := d.facade.DispatchStatusEvent(ctx, ev); err != nil {
		d.logger.Error("publish status event failed",
			zap.Int64("event_id", ev.ID),
			zap.Int64("request_id", ev.RequestID),
			zap.Error(err),
		)
	}
}
