package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Shalom-302/scraapbackend/internal/domain"
	"github.com/Shalom-302/scraapbackend/internal/ports"
)

const connectTimeout = 2 * time.Second

// NewClient creates a Redis client and verifies the connection.
func NewClient(addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// RedisQueue transports run requests through a Redis list. Submit returns as
// soon as the request is enqueued; the worker picks it up out of band.
type RedisQueue struct {
	client *redis.Client
	key    string
}

var _ ports.RunQueue = (*RedisQueue)(nil)

// NewRedisQueue wires a connected client and the list key runs travel on.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key}
}

// Submit enqueues one run request. A transport failure here is the only
// queue error a caller ever sees; the API maps it to service-unavailable.
func (q *RedisQueue) Submit(ctx context.Context, req domain.RunRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode run request: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("enqueue run request: %w", err)
	}
	return nil
}
