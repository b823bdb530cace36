// Package worker provides a fixed-size pool for fanning out independent
// generation calls. Batch imports run one job per word; the pool caps
// concurrency so the external model's rate limits are respected.
package worker

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolClosed is returned by Submit after Close.
var ErrPoolClosed = errors.New("worker pool closed")

// Job is one unit of work. Errors are the job's own business: batch callers
// collect per-item outcomes through their own result channel.
type Job func(ctx context.Context) error

// Pool runs jobs on a fixed number of goroutines.
type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int

	closeMu sync.Mutex
	closed  bool
}

// NewPool creates a pool with the given worker count and queue capacity.
func NewPool(workers, queue int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	return &Pool{
		jobs:    make(chan Job, queue),
		workers: workers,
	}
}

// Start launches the workers. They run until Close. After ctx is cancelled
// the workers keep draining the queue so every submitted job still runs,
// with the cancelled context, and no submitter is left waiting on a job
// that will never execute.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					for job := range p.jobs {
						_ = job(ctx)
					}
					return
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					_ = job(ctx)
				}
			}
		}()
	}
}

// Submit enqueues a job, blocking when the queue is full. Returns
// ErrPoolClosed after Close.
func (p *Pool) Submit(job Job) error {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.jobs <- job
	return nil
}

// Close stops accepting jobs and waits for in-flight ones to finish.
func (p *Pool) Close() {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.closeMu.Unlock()
	p.wg.Wait()
}
