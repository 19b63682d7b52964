package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsTasks(t *testing.T) {
	p := New(4, 10)
	p.Start(context.Background())

	var count int32
	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(func(ctx context.Context) {
			atomic.AddInt32(&count, 1)
		}))
	}

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, int32(10), atomic.LoadInt32(&count))
}

func TestPoolQueueFull(t *testing.T) {
	p := New(1, 1)

	// not started, so the single slot stays occupied
	require.NoError(t, p.Submit(func(ctx context.Context) {}))
	assert.ErrorIs(t, p.Submit(func(ctx context.Context) {}), ErrQueueFull)
	assert.Equal(t, 1, p.Pending())
}

func TestPoolSubmitAfterShutdown(t *testing.T) {
	p := New(1, 1)
	p.Start(context.Background())
	require.NoError(t, p.Shutdown(context.Background()))

	assert.ErrorIs(t, p.Submit(func(ctx context.Context) {}), ErrClosed)
	// second shutdown is a no-op
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestPoolRecoversPanics(t *testing.T) {
	p := New(1, 2)
	p.Start(context.Background())

	ran := make(chan struct{})
	require.NoError(t, p.Submit(func(ctx context.Context) { panic("boom") }))
	require.NoError(t, p.Submit(func(ctx context.Context) { close(ran) }))

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task after panic never ran")
	}
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestPoolShutdownDrainsQueue(t *testing.T) {
	p := New(1, 5)

	var count int32
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Submit(func(ctx context.Context) {
			atomic.AddInt32(&count, 1)
		}))
	}

	p.Start(context.Background())
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, int32(5), atomic.LoadInt32(&count))
}

func TestPoolShutdownTimeout(t *testing.T) {
	p := New(1, 1)
	p.Start(context.Background())

	release := make(chan struct{})
	defer close(release)
	require.NoError(t, p.Submit(func(ctx context.Context) { <-release }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Shutdown(ctx), context.DeadlineExceeded)
}

func TestPoolTasksUsePoolContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "pool")

	p := New(1, 1)
	p.Start(ctx)

	got := make(chan any, 1)
	require.NoError(t, p.Submit(func(ctx context.Context) { got <- ctx.Value(key{}) }))
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, "pool", <-got)
}
