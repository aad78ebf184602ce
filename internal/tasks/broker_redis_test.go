package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisBroker(t *testing.T) (*RedisBroker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	b, err := NewRedisBroker("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	return b, mr
}

func TestNewRedisBroker_InvalidURL(t *testing.T) {
	_, err := NewRedisBroker("http://not-redis")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRedisBroker_PushPop_FIFO(t *testing.T) {
	b, mr := newTestRedisBroker(t)
	ctx := context.Background()

	require.NoError(t, b.Push(ctx, "celery", []byte("first")))
	require.NoError(t, b.Push(ctx, "celery", []byte("second")))

	items, err := mr.List("celery")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	got, err := b.Pop(ctx, "celery", time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got)

	got, err = b.Pop(ctx, "celery", time.Second)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
}

func TestRedisBroker_Pop_TimesOut(t *testing.T) {
	b, _ := newTestRedisBroker(t)

	_, err := b.Pop(context.Background(), "empty", time.Second)
	assert.ErrorIs(t, err, ErrNoMessage)
}

func TestRedisBroker_Ping(t *testing.T) {
	b, mr := newTestRedisBroker(t)

	require.NoError(t, b.Ping(context.Background()))

	mr.Close()
	assert.Error(t, b.Ping(context.Background()))
}
