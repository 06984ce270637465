package config

const (
	EnvPrefix = "quotegen"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv      = "QUOTEGEN_APP_ENV"
	EnvPort        = "QUOTEGEN_APP_PORT"
	EnvDetectorURL = "QUOTEGEN_DETECTOR_URL"
	EnvRedisURL    = "QUOTEGEN_REDIS_URL"
	EnvQuoteTTL    = "QUOTEGEN_QUOTE_TTL"
)
