// Package worker runs background tasks on a fixed number of goroutines fed
// by a bounded queue.
package worker

import (
	"context"
	"errors"
	"log"
	"runtime/debug"
	"sync"
)

var (
	// ErrQueueFull is returned by Submit when no queue slot is free
	ErrQueueFull = errors.New("worker queue full")

	// ErrClosed is returned by Submit after Shutdown has been called
	ErrClosed = errors.New("worker pool closed")
)

// Task is a unit of background work
type Task func(ctx context.Context)

// Pool is a bounded worker pool
type Pool struct {
	mu      sync.RWMutex
	tasks   chan Task
	workers int
	started bool
	closed  bool
	wg      sync.WaitGroup
}

// New creates a pool with the given number of workers and queue capacity.
// Non-positive values are treated as 1.
func New(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Pool{
		tasks:   make(chan Task, queueSize),
		workers: workers,
	}
}

// Start launches the workers. Tasks run with ctx, not the submitter's context.
// Calling Start more than once has no effect.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.closed {
		return
	}
	p.started = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}
	log.Printf("Started %d workers (queue size %d)", p.workers, cap(p.tasks))
}

// Submit enqueues task without blocking
func (p *Pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending returns the number of queued tasks not yet picked up by a worker
func (p *Pool) Pending() int {
	return len(p.tasks)
}

// Shutdown stops accepting tasks and waits for queued and running tasks to
// finish or for ctx to expire.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()
	for task := range p.tasks {
		p.execute(ctx, task)
	}
}

func (p *Pool) execute(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: worker task panicked: %v\n%s", r, debug.Stack())
		}
	}()
	task(ctx)
}
