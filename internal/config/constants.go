package config

import "time"

// Environment keys. They mirror the struct tags on Config.
const (
	envPort            = "PORT"
	envShutdownTimeout = "SHUTDOWN_TIMEOUT"
	envReadTimeout     = "HTTP_READ_TIMEOUT"
	envWriteTimeout    = "HTTP_WRITE_TIMEOUT"
	envIdleTimeout     = "HTTP_IDLE_TIMEOUT"
	envLogLevel        = "LOG_LEVEL"
	envLogFormat       = "LOG_FORMAT"
	envMetricsPort     = "METRICS_PORT"
	envMetricsOn       = "METRICS_ENABLED"
	envOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService     = "OTEL_SERVICE_NAME"
	envOtelInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort            = "4000"
	defaultShutdownTimeout = 10 * time.Second
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultMetricsPort     = "9090"
	defaultServiceName     = "football-scoreboard"

	// dotenvFile is read from the working directory when present.
	dotenvFile = ".env"
)
