package worker

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Stats is a snapshot of pool activity
type Stats struct {
	TotalJobs     int64
	CompletedJobs int64
	ActiveWorkers int64
}

// Pool runs submitted jobs on a fixed number of goroutines
type Pool struct {
	workers  int
	jobQueue chan func()
	wg       sync.WaitGroup
	once     sync.Once

	mu     sync.RWMutex
	closed bool

	totalJobs     atomic.Int64
	completedJobs atomic.Int64
	activeWorkers atomic.Int64
}

// NewPool creates a pool with the specified number of workers, defaulting to
// the CPU count when workers <= 0
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Pool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Workers returns the number of worker goroutines
func (p *Pool) Workers() int {
	return p.workers
}

// Start launches the workers. Calling it again has no effect.
func (p *Pool) Start() {
	p.once.Do(func() {
		for i := 0; i < p.workers; i++ {
			go p.worker()
		}
	})
}

func (p *Pool) worker() {
	for job := range p.jobQueue {
		p.activeWorkers.Add(1)
		func() {
			defer func() {
				p.activeWorkers.Add(-1)
				p.completedJobs.Add(1)
				p.wg.Done()
			}()
			job()
		}()
	}
}

// Submit queues a job. It returns false once the pool is closed.
func (p *Pool) Submit(job func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	p.wg.Add(1)
	p.totalJobs.Add(1)
	p.jobQueue <- job
	return true
}

// Run submits jobs and waits for those jobs only. Jobs the closed pool
// refuses run on the calling goroutine.
func (p *Pool) Run(jobs ...func()) {
	var batch sync.WaitGroup
	for _, job := range jobs {
		job := job
		batch.Add(1)
		wrapped := func() {
			defer batch.Done()
			job()
		}
		if !p.Submit(wrapped) {
			wrapped()
		}
	}
	batch.Wait()
}

// Wait blocks until every submitted job has completed
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Stats returns current counters
func (p *Pool) Stats() Stats {
	return Stats{
		TotalJobs:     p.totalJobs.Load(),
		CompletedJobs: p.completedJobs.Load(),
		ActiveWorkers: p.activeWorkers.Load(),
	}
}

// Close stops accepting jobs and lets the workers drain the queue
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.jobQueue)
}
