package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBroker is a [Broker] backed by Redis lists: Push is LPUSH and Pop is
// BRPOP, so every queue is FIFO.
type RedisBroker struct {
	client *redis.Client
}

// NewRedisBroker connects lazily to the Redis server named by url
// ("redis://[:password@]host:port/db").
func NewRedisBroker(url string) (*RedisBroker, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: broker url: %w", ErrInvalidConfig, err)
	}

	return &RedisBroker{client: redis.NewClient(opts)}, nil
}

// Push implements [Broker].
func (b *RedisBroker) Push(ctx context.Context, queue string, data []byte) error {
	if err := b.client.LPush(ctx, queue, data).Err(); err != nil {
		return fmt.Errorf("error pushing task message: %w", err)
	}
	return nil
}

// Pop implements [Broker].
func (b *RedisBroker) Pop(ctx context.Context, queue string, timeout time.Duration) ([]byte, error) {
	res, err := b.client.BRPop(ctx, timeout, queue).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoMessage
		}
		return nil, fmt.Errorf("error popping task message: %w", err)
	}

	// BRPOP replies with [key, value]
	return []byte(res[1]), nil
}

// Ping checks the broker connection.
func (b *RedisBroker) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close implements [Broker].
func (b *RedisBroker) Close() error {
	return b.client.Close()
}
