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

// Pool executes jobs concurrently while preserving submission order in
// the returned results: slot i always belongs to job i. Callers that
// depend on deterministic output order can therefore parallelize freely.
type Pool struct {
	workers int
}

// NewPool creates a pool with the specified number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Workers returns the configured worker count
func (p *Pool) Workers() int {
	return p.workers
}

// Map runs all jobs and returns their results indexed by job position.
// It blocks until every started job has finished; on context
// cancellation remaining jobs are skipped and their slots stay nil.
func (p *Pool) Map(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	indices := make(chan int)

	workers := p.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				select {
				case <-ctx.Done():
					return
				default:
				}
				results[i] = jobs[i].Execute(ctx)
			}
		}()
	}

	for i := range jobs {
		select {
		case <-ctx.Done():
			close(indices)
			wg.Wait()
			return results
		case indices <- i:
		}
	}
	close(indices)
	wg.Wait()

	return results
}
