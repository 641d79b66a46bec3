package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPool_Submit(t *testing.T) {
	t.Run("submitted task runs", func(t *testing.T) {
		p := NewPool(2, 4, zap.NewNop())

		var ran atomic.Bool
		done := make(chan struct{})
		ok := p.Submit(func(ctx context.Context) {
			ran.Store(true)
			close(done)
		})

		assert.True(t, ok)
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("task did not run")
		}
		assert.True(t, ran.Load())
		p.Shutdown()
	})

	t.Run("shutdown drains queued work", func(t *testing.T) {
		p := NewPool(1, 8, zap.NewNop())

		var count atomic.Int64
		for i := 0; i < 5; i++ {
			p.Submit(func(ctx context.Context) { count.Add(1) })
		}
		p.Shutdown()

		assert.Equal(t, int64(5), count.Load())
	})

	t.Run("submit after shutdown is refused", func(t *testing.T) {
		p := NewPool(1, 1, zap.NewNop())
		p.Shutdown()

		assert.False(t, p.Submit(func(ctx context.Context) {}))
		assert.False(t, p.TrySubmit(func(ctx context.Context) {}))
	})
}

func TestPool_TrySubmit(t *testing.T) {
	t.Run("full queue is refused without blocking", func(t *testing.T) {
		p := NewPool(1, 1, zap.NewNop())

		var wg sync.WaitGroup
		wg.Add(1)
		block := make(chan struct{})
		// Occupy the single worker, then fill the single queue slot.
		p.Submit(func(ctx context.Context) {
			wg.Done()
			<-block
		})
		wg.Wait()
		p.Submit(func(ctx context.Context) {})

		assert.False(t, p.TrySubmit(func(ctx context.Context) {}))

		close(block)
		p.Shutdown()
	})
}

func TestPool_PanicRecovery(t *testing.T) {
	p := NewPool(1, 2, zap.NewNop())

	var ran atomic.Bool
	p.Submit(func(ctx context.Context) { panic("boom") })
	p.Submit(func(ctx context.Context) { ran.Store(true) })
	p.Shutdown()

	assert.True(t, ran.Load(), "a panicking task must not take the worker down")
}
