package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/retail-analytics/backend-go/internal/analytics"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/config"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(t *testing.T, values ...float64) analytics.Series {
	t.Helper()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]analytics.Point, len(values))
	for i, v := range values {
		points[i] = analytics.Point{Date: start.AddDate(0, 0, i), Value: v}
	}
	s, err := analytics.NewSeries(points)
	require.NoError(t, err)
	return s
}

func TestBuildForecastKey(t *testing.T) {
	a := BuildForecastKey(series(t, 1, 2, 3), 12)

	assert.True(t, strings.HasPrefix(a, forecastKeyPrefix+":"))
	assert.Equal(t, a, BuildForecastKey(series(t, 1, 2, 3), 12))
	assert.NotEqual(t, a, BuildForecastKey(series(t, 1, 2, 3), 6))
	assert.NotEqual(t, a, BuildForecastKey(series(t, 1, 2, 4), 12))
}

func TestNoopForecastCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewForecastCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "k", &domain.ForecastResponse{Dates: []string{"2024-01-01"}, Values: []float64{1}}))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.NoError(t, c.InvalidateAll(ctx))
	assert.NoError(t, c.Close())
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := buildRedisOptions(config.CacheConfig{RedisHost: "cache", RedisPort: "6380", RedisDB: 2})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	opts, err = buildRedisOptions(config.CacheConfig{})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", opts.Addr)

	opts, err = buildRedisOptions(config.CacheConfig{RedisURL: "redis://:secret@redis.internal:6379/3"})
	require.NoError(t, err)
	assert.Equal(t, "redis.internal:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 3, opts.DB)

	_, err = buildRedisOptions(config.CacheConfig{RedisURL: "://bad"})
	assert.Error(t, err)
}

func TestCacheTTL(t *testing.T) {
	assert.Equal(t, defaultCacheTTL, cacheTTL(config.CacheConfig{}))
	assert.Equal(t, 30*time.Second, cacheTTL(config.CacheConfig{ForecastTTLSeconds: 30}))
}
