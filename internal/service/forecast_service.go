package service

import (
	"context"
	"time"

	"github.com/andresuchdata/retail-analytics/backend-go/internal/analytics"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/cache"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/chart"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/config"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/domain"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/pipeline"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// ForecastService serves forecasts and trend tables. Model fits run under a
// shared concurrency limit and a per-fit deadline.
type ForecastService struct {
	cfg     config.ForecastConfig
	cache   cache.ForecastCache
	sem     *semaphore.Weighted
	timeout time.Duration
	pool    *pipeline.Pool
}

func NewForecastService(cfg config.ForecastConfig, cacheImpl cache.ForecastCache) *ForecastService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.DefaultHorizon < 1 {
		cfg.DefaultHorizon = 12
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	s := &ForecastService{
		cfg:     cfg,
		cache:   cacheImpl,
		sem:     semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		timeout: timeout,
	}
	poolCfg := pipeline.DefaultPoolConfig()
	if cfg.BatchWorkers > 0 {
		poolCfg.WorkerCount = cfg.BatchWorkers
	}
	s.pool = pipeline.NewPool(poolCfg, s.fit)
	return s
}

// Forecast projects the requested number of periods, serving repeated
// requests for identical input from the cache.
func (s *ForecastService) Forecast(ctx context.Context, req domain.ForecastRequest) (*domain.ForecastResponse, error) {
	series, horizon, err := s.prepare(req.SalesData, req.Periods)
	if err != nil {
		return nil, err
	}

	key := cache.BuildForecastKey(series, horizon)
	if resp, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return resp, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("forecast: cache get failed")
	}

	res, err := s.fit(ctx, series, horizon)
	if err != nil {
		return nil, errors.Wrap(err, "forecast")
	}

	resp := domain.NewForecastResponse(res)
	if err := s.cache.Set(ctx, key, resp); err != nil {
		log.Warn().Err(err).Msg("forecast: cache set failed")
	}
	return resp, nil
}

// ForecastBatch forecasts every series of the request independently. A
// series that fails carries its error; the others are unaffected.
func (s *ForecastService) ForecastBatch(ctx context.Context, req domain.BatchForecastRequest) (*domain.BatchForecastResponse, error) {
	if len(req.Series) == 0 {
		return nil, &analytics.Error{Kind: analytics.KindInvalidParameter, Message: "batch contains no series"}
	}

	items := make([]domain.BatchForecastItem, len(req.Series))
	jobs := make([]pipeline.Job, 0, len(req.Series))
	slots := make([]int, 0, len(req.Series))
	for i, sr := range req.Series {
		items[i].ID = sr.ID
		series, horizon, err := s.prepare(sr.SalesData, sr.Periods)
		if err != nil {
			items[i].Error = domain.NewErrorDetail(err)
			continue
		}
		jobs = append(jobs, pipeline.Job{ID: sr.ID, Series: series, Horizon: horizon})
		slots = append(slots, i)
	}

	start := time.Now()
	results := s.pool.Run(ctx, jobs)
	for _, r := range results {
		item := &items[slots[r.Index]]
		log.Debug().
			Str("series_id", r.ID).
			Str("status", string(r.Status)).
			Dur("elapsed", r.Duration).
			Msg("forecast: batch job done")
		if r.Err != nil {
			item.Error = domain.NewErrorDetail(r.Err)
			continue
		}
		resp := domain.NewForecastResponse(r.Forecast)
		item.Dates = resp.Dates
		item.Values = resp.Values
	}

	log.Debug().
		Int("series", len(req.Series)).
		Int("fitted", len(jobs)).
		Dur("elapsed", time.Since(start)).
		Msg("forecast: batch finished")

	return &domain.BatchForecastResponse{Results: items}, nil
}

// ForecastChart renders history and projection as a PNG line chart.
func (s *ForecastService) ForecastChart(ctx context.Context, req domain.ForecastRequest) ([]byte, error) {
	series, horizon, err := s.prepare(req.SalesData, req.Periods)
	if err != nil {
		return nil, err
	}

	res, err := s.fit(ctx, series, horizon)
	if err != nil {
		return nil, errors.Wrap(err, "forecast chart")
	}
	return chart.RenderForecast("Sales forecast", series, res)
}

// Trends computes the 7 and 30 observation moving averages and growth.
func (s *ForecastService) Trends(ctx context.Context, req domain.TrendRequest) (*domain.TrendResponse, error) {
	series, err := domain.ParseSales(req.SalesData)
	if err != nil {
		return nil, err
	}

	res, err := analytics.AnalyzeTrend(series, analytics.TrendOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "trends")
	}
	return domain.NewTrendResponse(res), nil
}

func (s *ForecastService) prepare(records []domain.SalesRecord, periods int) (analytics.Series, int, error) {
	horizon, err := s.resolveHorizon(periods)
	if err != nil {
		return analytics.Series{}, 0, err
	}
	series, err := domain.ParseSales(records)
	if err != nil {
		return analytics.Series{}, 0, err
	}
	return series, horizon, nil
}

func (s *ForecastService) resolveHorizon(periods int) (int, error) {
	switch {
	case periods == 0:
		return s.cfg.DefaultHorizon, nil
	case periods < 0:
		return 0, &analytics.Error{Kind: analytics.KindInvalidParameter, Message: "periods must be positive"}
	case s.cfg.MaxHorizon > 0 && periods > s.cfg.MaxHorizon:
		return 0, &analytics.Error{Kind: analytics.KindInvalidParameter, Message: "periods exceeds the maximum horizon"}
	}
	return periods, nil
}

// fit runs one model fit once a concurrency slot is free. The slot stays held
// until the fit returns, even when the caller has already timed out.
func (s *ForecastService) fit(ctx context.Context, series analytics.Series, horizon int) (*analytics.ForecastResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, errors.Wrap(err, "waiting for a forecast slot")
	}

	type outcome struct {
		res *analytics.ForecastResult
		err error
	}
	done := make(chan outcome, 1)
	start := time.Now()
	go func() {
		defer s.sem.Release(1)
		res, err := analytics.Forecast(series, horizon)
		done <- outcome{res: res, err: err}
	}()

	select {
	case <-ctx.Done():
		log.Warn().
			Int("observations", series.Len()).
			Dur("timeout", s.timeout).
			Msg("forecast: fit abandoned")
		return nil, errors.Wrap(ctx.Err(), "forecast fit")
	case o := <-done:
		log.Debug().
			Int("observations", series.Len()).
			Int("horizon", horizon).
			Dur("elapsed", time.Since(start)).
			Err(o.err).
			Msg("forecast: fit finished")
		return o.res, o.err
	}
}
