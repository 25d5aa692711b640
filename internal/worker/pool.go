package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// Pool executes a fixed set of jobs with bounded concurrency. Results
// come back in submission order, which lets callers line them up with
// their inputs without extra bookkeeping.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given concurrency
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run executes all jobs and blocks until every one has finished or the
// context is cancelled. Jobs still waiting on the semaphore when the
// context ends are reported as cancelled, not executed.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup

	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, j Job) {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				results[idx] = cancelledResult{err: err}
				return
			}
			select {
			case <-ctx.Done():
				results[idx] = cancelledResult{err: ctx.Err()}
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			results[idx] = j.Execute(ctx)
		}(i, job)
	}

	wg.Wait()
	return results
}

type cancelledResult struct {
	err error
}

func (r cancelledResult) GetError() error { return r.err }
