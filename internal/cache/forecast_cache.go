package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/retail-analytics/backend-go/internal/analytics"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/config"
	"github.com/andresuchdata/retail-analytics/backend-go/internal/domain"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	forecastKeyPrefix     = "forecast:v1"
	forecastScanBatchSize = 100
)

// ForecastCache stores finished forecasts keyed by their input series and
// horizon. A forecast is a pure function of both, so entries never go stale
// until the model itself changes (bump forecastKeyPrefix).
type ForecastCache interface {
	Get(ctx context.Context, key string) (*domain.ForecastResponse, bool, error)
	Set(ctx context.Context, key string, resp *domain.ForecastResponse) error
	InvalidateAll(ctx context.Context) error
	Close() error
}

type redisForecastCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopForecastCache struct{}

// NewForecastCache returns a Redis backed cache, or a no-op one when caching
// is disabled.
func NewForecastCache(cfg config.CacheConfig) (ForecastCache, error) {
	if !cfg.Enabled {
		return &noopForecastCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisForecastCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopForecastCache() ForecastCache {
	return &noopForecastCache{}
}

func (c *redisForecastCache) Get(ctx context.Context, key string) (*domain.ForecastResponse, bool, error) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "redis get failed")
	}

	var resp domain.ForecastResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, false, errors.Wrap(err, "decode forecast cache")
	}

	return &resp, true, nil
}

func (c *redisForecastCache) Set(ctx context.Context, key string, resp *domain.ForecastResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return errors.Wrap(err, "encode forecast cache")
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set failed")
	}
	return nil
}

func (c *redisForecastCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, forecastKeyPrefix, forecastScanBatchSize)
}

func (c *redisForecastCache) Close() error {
	return c.client.Close()
}

func (n *noopForecastCache) Get(ctx context.Context, key string) (*domain.ForecastResponse, bool, error) {
	return nil, false, nil
}

func (n *noopForecastCache) Set(ctx context.Context, key string, resp *domain.ForecastResponse) error {
	return nil
}

func (n *noopForecastCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func (n *noopForecastCache) Close() error {
	return nil
}

// BuildForecastKey hashes the ordered series and horizon into a cache key.
func BuildForecastKey(series analytics.Series, horizon int) string {
	return fmt.Sprintf("%s:%s", forecastKeyPrefix, forecastInputHash(series, horizon))
}

func forecastInputHash(series analytics.Series, horizon int) string {
	var b strings.Builder
	b.WriteString("horizon=")
	b.WriteString(strconv.Itoa(horizon))
	for _, p := range series.Points() {
		b.WriteByte('|')
		b.WriteString(p.Date.Format(analytics.DateLayout))
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(p.Value, 'g', -1, 64))
	}

	sum := sha1.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
