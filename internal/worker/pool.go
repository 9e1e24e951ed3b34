// Package worker provides background persistence of served analyses.
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/moodtune/internal/core/domain"
	"github.com/ewilliams-labs/moodtune/internal/core/ports"
	"github.com/ewilliams-labs/moodtune/internal/metrics"
)

const saveTimeout = 5 * time.Second

// Pool writes history entries to the repository from a bounded queue.
type Pool struct {
	repo    ports.HistoryRepository
	jobs    chan domain.HistoryEntry
	workers int
	logger  *zap.Logger
}

var _ ports.HistorySink = (*Pool)(nil)

// NewPool creates a worker pool with the given worker count and queue size.
func NewPool(repo ports.HistoryRepository, workers int, queueSize int, logger *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		repo:    repo,
		jobs:    make(chan domain.HistoryEntry, queueSize),
		workers: workers,
		logger:  logger.Named("worker"),
	}
}

// Submit queues an entry without blocking. It returns false when the queue is full.
func (p *Pool) Submit(e domain.HistoryEntry) bool {
	select {
	case p.jobs <- e:
		return true
	default:
		metrics.HistoryDroppedTotal.Inc()
		p.logger.Warn("worker: dropping history entry", zap.String("history_id", e.ID))
		return false
	}
}

// Serve runs the workers until ctx is canceled, then drains whatever is
// still queued. It satisfies suture.Service.
func (p *Pool) Serve(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case e := <-p.jobs:
					p.processJob(e)
				}
			}
		}()
	}
	wg.Wait()

	p.drain()
	return ctx.Err()
}

// Queued returns the number of entries waiting to be written.
func (p *Pool) Queued() int {
	return len(p.jobs)
}

func (p *Pool) drain() {
	for {
		select {
		case e := <-p.jobs:
			p.processJob(e)
		default:
			return
		}
	}
}

func (p *Pool) processJob(e domain.HistoryEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := p.repo.Save(ctx, e); err != nil {
		p.logger.Warn("worker: failed to save history entry", zap.String("history_id", e.ID), zap.Error(err))
		return
	}
	p.logger.Debug("worker: saved history entry", zap.String("history_id", e.ID), zap.String("emotion", e.Emotion))
}

func (p *Pool) String() string { return "history-worker" }
