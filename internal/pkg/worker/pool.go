// Package worker implements a bounded task pool for fire-and-forget work:
// cache purges, cache population, scheduled-job execution, and error
// notification. The queue is an explicit channel so backpressure and shutdown
// behavior stay visible, instead of an ambient background-job singleton.
package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Task is a unit of asynchronous work. Tasks must be idempotent: the pool
// gives no delivery guarantees beyond best effort before shutdown.
type Task func(ctx context.Context)

// Pool runs tasks on a fixed number of goroutines fed by a bounded queue.
type Pool struct {
	tasks    chan Task
	wg       sync.WaitGroup
	logger   *zap.Logger
	stopOnce sync.Once

	ctx    context.Context
	cancel context.CancelFunc
}

// NewPool creates a pool with the given number of workers and queue capacity
// and starts the workers immediately.
func NewPool(workers, queueSize int, logger *zap.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = workers * 4
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		tasks:  make(chan Task, queueSize),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.run(i)
	}
	return p
}

// Submit enqueues a task, blocking while the queue is full.
// Returns false if the pool is already shut down.
func (p *Pool) Submit(task Task) bool {
	select {
	case <-p.ctx.Done():
		return false
	default:
	}

	select {
	case p.tasks <- task:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// TrySubmit enqueues a task without blocking.
// Returns false when the queue is full or the pool is shut down; the caller
// decides whether dropping the task is acceptable.
func (p *Pool) TrySubmit(task Task) bool {
	select {
	case <-p.ctx.Done():
		return false
	default:
	}

	select {
	case p.tasks <- task:
		return true
	default:
		return false
	}
}

// Shutdown stops accepting tasks, drains the queue, and waits for in-flight
// work to finish.
func (p *Pool) Shutdown() {
	p.stopOnce.Do(func() {
		p.cancel()
		close(p.tasks)
	})
	p.wg.Wait()
}

func (p *Pool) run(id int) {
	defer p.wg.Done()
	for task := range p.tasks {
		p.execute(id, task)
	}
}

func (p *Pool) execute(id int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("worker task panicked",
				zap.Int("worker", id),
				zap.Any("panic", r),
			)
		}
	}()
	// Tasks run against the background context: a shutdown drains the queue
	// rather than cancelling work already accepted.
	task(context.Background())
}
