package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	cfg := FromViper(viper.New())

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.Cache.Enabled)
	assert.False(t, cfg.Cache.FlushOnStart)
	assert.Equal(t, 12, cfg.Forecast.DefaultHorizon)
	assert.Equal(t, 12_000_000.0, cfg.Replenishment.AnnualDemand)
	assert.Equal(t, 25_000.0, cfg.Replenishment.OrderCost)
	assert.Equal(t, 5_000.0, cfg.Replenishment.HoldingCost)
	assert.Equal(t, 40_000.0, cfg.Replenishment.DailyDemand)
	assert.Equal(t, 3.0, cfg.Replenishment.LeadTimeDays)
	assert.Equal(t, 1.65, cfg.Replenishment.ServiceZ)
	assert.Equal(t, 5_000.0, cfg.Replenishment.DemandStdDev)
}

func TestFromViperEnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("FORECAST_MAX_HORIZON", "24")
	t.Setenv("ROP_SERVICE_Z", "2.33")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_FLUSH_ON_START", "true")

	cfg := FromViper(viper.New())

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 24, cfg.Forecast.MaxHorizon)
	assert.Equal(t, 2.33, cfg.Replenishment.ServiceZ)
	assert.True(t, cfg.Cache.Enabled)
	assert.True(t, cfg.Cache.FlushOnStart)
}
