package pipeline

import (
	"context"
	"time"

	"github.com/andresuchdata/retail-analytics/backend-go/internal/analytics"
)

// ForecastFunc produces a forecast for one series. The service passes its
// bounded, time limited fit here so batch jobs share the same limits as
// single requests.
type ForecastFunc func(ctx context.Context, series analytics.Series, horizon int) (*analytics.ForecastResult, error)

// Job is one series of a batch
type Job struct {
	ID      string
	Series  analytics.Series
	Horizon int
}

// JobStatus represents the state of a single forecast job
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusSkipped   JobStatus = "skipped"
)

// Result is the outcome of a Job. Err is set when Status is failed or skipped.
type Result struct {
	Index    int
	ID       string
	Status   JobStatus
	Forecast *analytics.ForecastResult
	Err      error
	Duration time.Duration
}

// PoolConfig holds configuration for a batch run
type PoolConfig struct {
	WorkerCount int
}

// DefaultPoolConfig is used when no worker count is configured
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{WorkerCount: 4}
}
