package service

import (
	"fmt"
	"sync"

	"github.com/svdgoor/Tools/internal/models"
)

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 4

// Result pairs a job with its outcome.
type Result struct {
	Job     models.Job
	Outcome Outcome
}

// Pool runs jobs on a fixed number of worker goroutines.
type Pool struct {
	workers int
	wg      sync.WaitGroup
}

// NewPool creates a pool of the given size. Sizes below one become one.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Workers returns the configured pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// Run dispatches every job to fn with at most Workers calls in flight and
// returns the results in completion order. The channel is closed after the
// last result is delivered. Jobs cannot be cancelled once submitted; the
// caller must drain the channel.
func (p *Pool) Run(jobs []models.Job, fn func(models.Job) Outcome) <-chan Result {
	jobChan := make(chan models.Job, len(jobs))
	results := make(chan Result, p.workers)

	// Start workers
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range jobChan {
				results <- Result{Job: job, Outcome: runJob(job, fn)}
			}
		}()
	}

	// Send jobs to workers
	for _, job := range jobs {
		jobChan <- job
	}
	close(jobChan)

	go func() {
		p.wg.Wait()
		close(results)
	}()

	return results
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// runJob calls fn, turning a panic into a failed outcome so one bad job
// cannot take down the pool.
func runJob(job models.Job, fn func(models.Job) Outcome) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: fmt.Errorf("%w: %s: %v", ErrJobPanicked, job.Path, r)}
		}
	}()
	return fn(job)
}
