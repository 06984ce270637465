package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Detector  DetectorConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Quotes    QuotesConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"QUOTEGEN_APP_ENV" required:"true"`
	Port         string `envconfig:"QUOTEGEN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"QUOTEGEN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"QUOTEGEN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DetectorConfig struct {
	BaseURL       string        `envconfig:"QUOTEGEN_DETECTOR_URL" required:"true"`
	Timeout       time.Duration `envconfig:"QUOTEGEN_DETECTOR_TIMEOUT" default:"30s"`
	MinConfidence float64       `envconfig:"QUOTEGEN_DETECTOR_MIN_CONFIDENCE" default:"0.25"`
}

type RedisConfig struct {
	URL          string        `envconfig:"QUOTEGEN_REDIS_URL"`
	Address      string        `envconfig:"QUOTEGEN_REDIS_ADDR"`
	Password     string        `envconfig:"QUOTEGEN_REDIS_PASSWORD"`
	DB           int           `envconfig:"QUOTEGEN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"QUOTEGEN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"QUOTEGEN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"QUOTEGEN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"QUOTEGEN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"QUOTEGEN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all. Rate
// limiting is skipped when it is not.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type RateLimitConfig struct {
	GenerateWindow  time.Duration `envconfig:"QUOTEGEN_RATE_LIMIT_GENERATE_WINDOW" default:"1m"`
	GenerateIPLimit int           `envconfig:"QUOTEGEN_RATE_LIMIT_GENERATE_IP_LIMIT" default:"10"`
}

type QuotesConfig struct {
	// TTL bounds how long an untouched quote stays resident. Zero keeps
	// quotes until explicitly deleted.
	TTL           time.Duration `envconfig:"QUOTEGEN_QUOTE_TTL" default:"0"`
	SweepInterval time.Duration `envconfig:"QUOTEGEN_QUOTE_SWEEP_INTERVAL" default:"1m"`
}
