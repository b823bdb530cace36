package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsAllJobs(t *testing.T) {
	p := NewPool(4, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	var ran int32
	const jobs = 100
	for i := 0; i < jobs; i++ {
		err := p.Submit(func(ctx context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	p.Close()

	if got := atomic.LoadInt32(&ran); got != jobs {
		t.Fatalf("ran %d jobs, want %d", got, jobs)
	}
}

func TestSubmitAfterClose(t *testing.T) {
	p := NewPool(1, 2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	p.Close()

	err := p.Submit(func(ctx context.Context) error { return nil })
	if !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("got %v, want ErrPoolClosed", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	p := NewPool(1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	p.Close()
	p.Close()
}

func TestCancelledPoolDrainsQueuedJobs(t *testing.T) {
	p := NewPool(1, 8)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	// The first job holds the single worker until the context is
	// cancelled, so the remaining jobs are still queued at that point.
	blocked := make(chan struct{})
	err := p.Submit(func(ctx context.Context) error {
		close(blocked)
		<-ctx.Done()
		return ctx.Err()
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	var ran int32
	const queued = 5
	for i := 0; i < queued; i++ {
		err := p.Submit(func(ctx context.Context) error {
			atomic.AddInt32(&ran, 1)
			return ctx.Err()
		})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	<-blocked
	cancel()

	done := make(chan struct{})
	go func() {
		p.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked; queued jobs were not drained after cancellation")
	}

	if got := atomic.LoadInt32(&ran); got != queued {
		t.Fatalf("ran %d queued jobs after cancellation, want %d", got, queued)
	}
}

func TestContextCancellationStopsWorkers(t *testing.T) {
	p := NewPool(2, 16)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	cancel()
	done := make(chan struct{})
	go func() {
		p.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Close blocked after context cancellation")
	}
}
