package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/andresuchdata/retail-analytics/backend-go/pkg/logger"
)

// Pool fans a batch of forecast jobs out over a fixed number of workers
type Pool struct {
	config   PoolConfig
	forecast ForecastFunc
}

// NewPool creates a new batch forecast pool
func NewPool(config PoolConfig, forecast ForecastFunc) *Pool {
	if config.WorkerCount < 1 {
		config.WorkerCount = 1
	}
	return &Pool{config: config, forecast: forecast}
}

// Run forecasts every job and returns one Result per job, in job order. A
// failing job does not stop the others; once ctx is done, jobs that have
// not started are reported as skipped with the context error.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	for i, job := range jobs {
		results[i] = Result{Index: i, ID: job.ID, Status: JobStatusQueued}
	}
	if len(jobs) == 0 {
		return results
	}

	workerCount := p.config.WorkerCount
	if workerCount > len(jobs) {
		workerCount = len(jobs)
	}

	jobChan := make(chan int, len(jobs))
	var wg sync.WaitGroup

	// Start workers
	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range jobChan {
				results[i] = p.process(ctx, workerID, i, jobs[i])
			}
		}(w)
	}

	// Enqueue jobs
enqueue:
	for i := range jobs {
		select {
		case <-ctx.Done():
			break enqueue
		case jobChan <- i:
		}
	}
	close(jobChan)

	wg.Wait()

	for i := range results {
		if results[i].Status == JobStatusQueued {
			results[i].Status = JobStatusSkipped
			results[i].Err = ctx.Err()
		}
	}
	return results
}

func (p *Pool) process(ctx context.Context, workerID, index int, job Job) Result {
	res := Result{Index: index, ID: job.ID}
	if err := ctx.Err(); err != nil {
		res.Status = JobStatusSkipped
		res.Err = err
		return res
	}

	start := time.Now()
	forecast, err := p.forecast(ctx, job.Series, job.Horizon)
	res.Duration = time.Since(start)
	if err != nil {
		logger.Log.Debug().
			Err(err).
			Int("worker", workerID).
			Str("series_id", job.ID).
			Msg("batch forecast job failed")
		res.Status = JobStatusFailed
		res.Err = err
		return res
	}

	res.Status = JobStatusCompleted
	res.Forecast = forecast
	return res
}
