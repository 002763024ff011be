package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Shalom-302/scraapbackend/internal/domain"
)

const (
	popTimeout  = 5 * time.Second
	pollBackoff = time.Second
)

// RunFunc executes one veille run. In production it is the workflow's Run;
// tests plug a recording function instead.
type RunFunc func(ctx context.Context, req domain.RunRequest) (domain.RunSummary, error)

// Worker consumes run requests from the queue and executes them one at a
// time. A failed run is logged as a failed task outcome; the worker itself
// keeps going.
type Worker struct {
	client *redis.Client
	key    string
	run    RunFunc
	logger *slog.Logger
}

// NewWorker builds a worker on the same client and key the queue uses.
func NewWorker(client *redis.Client, key string, run RunFunc, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{client: client, key: key, run: run, logger: logger}
}

// Start launches the consume loop; it exits when ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *Worker) loop(ctx context.Context) {
	w.logger.Info("run worker started", "queue", w.key)
	for {
		if ctx.Err() != nil {
			w.logger.Info("run worker stopped")
			return
		}

		res, err := w.client.BRPop(ctx, popTimeout, w.key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				w.logger.Info("run worker stopped")
				return
			}
			w.logger.Error("queue poll failed", "error", err)
			time.Sleep(pollBackoff)
			continue
		}

		// BRPop returns [key, payload].
		if len(res) < 2 {
			continue
		}

		var req domain.RunRequest
		if err := json.Unmarshal([]byte(res[1]), &req); err != nil {
			w.logger.Error("discarding malformed run request", "error", err)
			continue
		}

		summary, err := w.run(ctx, req)
		if err != nil {
			w.logger.Error("veille run failed",
				"run_id", req.ID, "query", req.Query,
				"status", summary.Status, "error", err)
			continue
		}
		w.logger.Info("veille run completed",
			"run_id", req.ID, "query", req.Query,
			"status", summary.Status, "processed", summary.Processed)
	}
}
