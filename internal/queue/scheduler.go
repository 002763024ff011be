package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Shalom-302/scraapbackend/internal/domain"
	"github.com/Shalom-302/scraapbackend/internal/ports"
)

// Scheduler enqueues a recurring veille run on a fixed interval, for
// deployments that want unattended monitoring next to manual triggers.
type Scheduler struct {
	every  time.Duration
	query  string
	queue  ports.RunQueue
	logger *slog.Logger
	stop   chan struct{}
}

// NewScheduler builds a scheduler; it stays inert when every <= 0 or the
// query is empty.
func NewScheduler(every time.Duration, query string, queue ports.RunQueue, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{every: every, query: query, queue: queue, logger: logger}
}

// Start begins ticking. Each tick submits one run request; submit failures
// are logged and retried on the next tick.
func (s *Scheduler) Start(ctx context.Context) {
	if s.every <= 0 || s.query == "" || s.queue == nil {
		return
	}
	if s.stop != nil {
		return
	}

	s.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				req := domain.RunRequest{ID: uuid.NewString(), Query: s.query}
				if err := s.queue.Submit(ctx, req); err != nil {
					s.logger.Error("scheduled run submit failed", "error", err)
					continue
				}
				s.logger.Info("scheduled run submitted", "run_id", req.ID, "query", s.query)
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the ticker goroutine.
func (s *Scheduler) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
}
