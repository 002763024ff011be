package queue

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Shalom-302/scraapbackend/internal/domain"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestSubmitEnqueuesRequest(t *testing.T) {
	mr, client := newTestRedis(t)

	q := NewRedisQueue(client, "veille:runs")
	req := domain.RunRequest{ID: "run-1", Query: "Fintech trends"}
	if err := q.Submit(context.Background(), req); err != nil {
		t.Fatalf("submit: %v", err)
	}

	payload, err := mr.Lpop("veille:runs")
	if err != nil {
		t.Fatalf("lpop: %v", err)
	}

	var got domain.RunRequest
	if err := json.Unmarshal([]byte(payload), &got); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if got != req {
		t.Fatalf("expected %+v, got %+v", req, got)
	}
}

func TestSubmitFailsWhenBrokerIsDown(t *testing.T) {
	mr, client := newTestRedis(t)
	mr.Close()

	q := NewRedisQueue(client, "veille:runs")
	if err := q.Submit(context.Background(), domain.RunRequest{ID: "x", Query: "y"}); err == nil {
		t.Fatal("expected error when redis is unreachable")
	}
}

func TestWorkerConsumesAndRuns(t *testing.T) {
	_, client := newTestRedis(t)

	ran := make(chan domain.RunRequest, 1)
	run := func(_ context.Context, req domain.RunRequest) (domain.RunSummary, error) {
		ran <- req
		return domain.RunSummary{Status: domain.RunStatusSuccess, Processed: 3}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := NewWorker(client, "veille:runs", run, slog.New(slog.NewTextHandler(io.Discard, nil)))
	worker.Start(ctx)

	q := NewRedisQueue(client, "veille:runs")
	want := domain.RunRequest{ID: "run-7", Query: "AI infrastructure"}
	if err := q.Submit(ctx, want); err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case got := <-ran:
		if got != want {
			t.Fatalf("expected %+v, got %+v", want, got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not pick up the run request")
	}
}

func TestSchedulerSubmitsOnInterval(t *testing.T) {
	_, client := newTestRedis(t)

	q := NewRedisQueue(client, "veille:runs")
	s := NewScheduler(20*time.Millisecond, "Tendances Fintech", q, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.Start(ctx)
	defer s.Stop()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("scheduler never submitted a run")
		default:
		}

		n, err := client.LLen(ctx, "veille:runs").Result()
		if err != nil {
			t.Fatalf("llen: %v", err)
		}
		if n > 0 {
			payload, err := client.RPop(ctx, "veille:runs").Result()
			if err != nil {
				t.Fatalf("rpop: %v", err)
			}
			var req domain.RunRequest
			if err := json.Unmarshal([]byte(payload), &req); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if req.Query != "Tendances Fintech" {
				t.Fatalf("unexpected query: %s", req.Query)
			}
			if req.ID == "" {
				t.Fatal("scheduled run has no id")
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}
