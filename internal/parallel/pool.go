// Package parallel runs independent per-asset jobs on a bounded set of
// goroutines.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is reported for jobs handed to a closed pool.
var ErrClosed = errors.New("parallel: pool closed")

// Job is one unit of work. Jobs share nothing; each owns its inputs.
type Job func(ctx context.Context) error

// Pool is a fixed set of worker goroutines fed from one queue.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	workers int
	queue   chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// Workers start immediately and block on the queue.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		workers: workers,
		queue:   make(chan func(), workers*2),
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			p.drain()
			return
		case work := <-p.queue:
			work()
		}
	}
}

// drain runs whatever is still queued so Run never waits on dropped work.
func (p *Pool) drain() {
	for {
		select {
		case work := <-p.queue:
			work()
		default:
			return
		}
	}
}

// Run executes every job and waits for all of them. The returned slice has
// one entry per job, in job order.
//
// Jobs that have not started when ctx is cancelled are not run; their entry
// is ctx.Err(). A closed pool reports ErrClosed for every job.
func (p *Pool) Run(ctx context.Context, jobs []Job) []error {
	errs := make([]error, len(jobs))
	if len(jobs) == 0 {
		return errs
	}
	if !p.running.Load() {
		for i := range errs {
			errs[i] = ErrClosed
		}
		return errs
	}

	var wg sync.WaitGroup
	wg.Add(len(jobs))

	for i, job := range jobs {
		wrapped := func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			errs[i] = job(ctx)
		}

		select {
		case p.queue <- wrapped:
		case <-ctx.Done():
			errs[i] = ctx.Err()
			wg.Done()
		case <-p.done:
			errs[i] = ErrClosed
			wg.Done()
		}
	}

	wg.Wait()
	return errs
}

// Close stops the workers after queued work finishes. Close is safe to
// call multiple times but must not race with Run.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning returns true if the pool is still accepting work.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}
