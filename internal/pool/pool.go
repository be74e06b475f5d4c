// Package pool provides a fixed-size worker pool for executing
// fire-and-forget search jobs concurrently.
//
// The pool owns a single FIFO queue shared by all workers. Jobs are
// delivered in submission order, but because workers run in parallel the
// order of completion (and therefore of any output a job produces) is
// not deterministic.
package pool

import "sync"

// Job is a unit of deferred work. It takes no arguments and returns
// nothing; once submitted, the caller has no further handle on it.
type Job func()

// Pool runs submitted jobs on a fixed set of worker goroutines fed from
// one shared queue. The queue is unbounded, so Submit never blocks
// waiting for a worker to become free.
//
// A Pool must be created with New. After Close returns, every accepted
// job has been executed.
type Pool struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Job
	closed bool
	wg     sync.WaitGroup
}

// New creates a Pool with the given number of workers, each immediately
// entering a receive loop on the shared queue.
//
// New panics if workers is less than 1. An invalid worker count is a
// precondition violation by the caller, not a recoverable condition; the
// CLI layer validates user input before reaching this point.
func New(workers int) *Pool {
	if workers < 1 {
		panic("pool: worker count must be at least 1")
	}

	p := &Pool{}
	p.cond = sync.NewCond(&p.mu)

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

// Submit enqueues a job for execution by whichever worker becomes free
// first. It never blocks on the job's completion. Once Close has begun,
// submissions are silently dropped; the return value reports whether the
// job was accepted. Callers must not rely on post-shutdown submissions
// executing.
func (p *Pool) Submit(job Job) bool {
	if job == nil {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false
	}

	p.queue = append(p.queue, job)
	p.cond.Signal()
	return true
}

// Close marks the queue closed and blocks until every worker has drained
// the remaining jobs and exited. It is idempotent and safe to call
// concurrently with Submit.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		p.cond.Broadcast()
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// worker pulls one job at a time from the queue and runs it, exiting
// only when the queue is closed and empty.
func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			// Closed and fully drained.
			p.mu.Unlock()
			return
		}
		job := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		runJob(job)
	}
}

// runJob executes a single job, containing any panic so that one failing
// job cannot take down its worker or the pool.
func runJob(job Job) {
	defer func() {
		_ = recover()
	}()
	job()
}
