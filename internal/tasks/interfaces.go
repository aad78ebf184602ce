package tasks

//go:generate mockgen -source=interfaces.go -destination=../mock/tasks_broker_mock.go -package=mock

import (
	"context"
	"time"
)

// Broker moves encoded task messages between the API process and workers.
type Broker interface {
	// Push appends data to the tail of queue.
	Push(ctx context.Context, queue string, data []byte) error

	// Pop removes the oldest message of queue, waiting up to timeout.
	// It returns [ErrNoMessage] when nothing arrived in time.
	Pop(ctx context.Context, queue string, timeout time.Duration) ([]byte, error)

	// Close releases the broker connection.
	Close() error
}
