// backend-go/internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Cache         CacheConfig
	Forecast      ForecastConfig
	Replenishment ReplenishmentConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	ForecastTTLSeconds int
	FlushOnStart       bool
}

type ForecastConfig struct {
	DefaultHorizon int
	MaxHorizon     int
	MaxConcurrent  int
	TimeoutSeconds int
	BatchWorkers   int
}

// ReplenishmentConfig holds the EOQ/ROP constants used when a request
// does not override them.
type ReplenishmentConfig struct {
	AnnualDemand float64
	OrderCost    float64
	HoldingCost  float64
	DailyDemand  float64
	LeadTimeDays float64
	ServiceZ     float64
	DemandStdDev float64
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		instance = FromViper(viper.GetViper())
	})

	return instance
}

// FromViper applies defaults to v, binds the environment and builds a Config.
func FromViper(v *viper.Viper) *Config {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_FORECAST_TTL_SECONDS", 300)
	v.SetDefault("CACHE_FLUSH_ON_START", false)
	v.SetDefault("FORECAST_DEFAULT_HORIZON", 12)
	v.SetDefault("FORECAST_MAX_HORIZON", 120)
	v.SetDefault("FORECAST_MAX_CONCURRENT", 4)
	v.SetDefault("FORECAST_TIMEOUT_SECONDS", 10)
	v.SetDefault("FORECAST_BATCH_WORKERS", 4)
	v.SetDefault("EOQ_ANNUAL_DEMAND", 12000000)
	v.SetDefault("EOQ_ORDER_COST", 25000)
	v.SetDefault("EOQ_HOLDING_COST", 5000)
	v.SetDefault("ROP_DAILY_DEMAND", 40000)
	v.SetDefault("ROP_LEAD_TIME_DAYS", 3)
	v.SetDefault("ROP_SERVICE_Z", 1.65)
	v.SetDefault("ROP_DEMAND_STD_DEV", 5000)

	// Read from environment variables
	v.AutomaticEnv()

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Cache: CacheConfig{
			Enabled:            v.GetBool("CACHE_ENABLED"),
			RedisURL:           v.GetString("REDIS_URL"),
			RedisHost:          v.GetString("REDIS_HOST"),
			RedisPort:          v.GetString("REDIS_PORT"),
			RedisPassword:      v.GetString("REDIS_PASSWORD"),
			RedisDB:            v.GetInt("REDIS_DB"),
			ForecastTTLSeconds: v.GetInt("CACHE_FORECAST_TTL_SECONDS"),
			FlushOnStart:       v.GetBool("CACHE_FLUSH_ON_START"),
		},
		Forecast: ForecastConfig{
			DefaultHorizon: v.GetInt("FORECAST_DEFAULT_HORIZON"),
			MaxHorizon:     v.GetInt("FORECAST_MAX_HORIZON"),
			MaxConcurrent:  v.GetInt("FORECAST_MAX_CONCURRENT"),
			TimeoutSeconds: v.GetInt("FORECAST_TIMEOUT_SECONDS"),
			BatchWorkers:   v.GetInt("FORECAST_BATCH_WORKERS"),
		},
		Replenishment: ReplenishmentConfig{
			AnnualDemand: v.GetFloat64("EOQ_ANNUAL_DEMAND"),
			OrderCost:    v.GetFloat64("EOQ_ORDER_COST"),
			HoldingCost:  v.GetFloat64("EOQ_HOLDING_COST"),
			DailyDemand:  v.GetFloat64("ROP_DAILY_DEMAND"),
			LeadTimeDays: v.GetFloat64("ROP_LEAD_TIME_DAYS"),
			ServiceZ:     v.GetFloat64("ROP_SERVICE_Z"),
			DemandStdDev: v.GetFloat64("ROP_DEMAND_STD_DEV"),
		},
	}
}
