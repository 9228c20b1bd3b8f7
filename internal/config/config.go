package config

import (
	"errors"
	"fmt"
	"strconv"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port            string   `env:"PORT" envDefault:"4000"`
	ShutdownTimeout Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	HTTP            HTTPConfig
	Log             LogConfig
	Metrics         MetricsConfig
}

// HTTPConfig holds listener timeouts. Zero leaves the server default in place.
type HTTPConfig struct {
	ReadTimeout  Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout  Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	return loadFrom(dotenvFile)
}

func loadFrom(dotenvFiles ...string) (Config, error) {
	if err := loadDotEnv(dotenvFiles...); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := parseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if err := validatePort(envPort, c.Port); err != nil {
		errs = append(errs, err)
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %s", envShutdownTimeout, c.ShutdownTimeout))
	}
	for key, d := range map[string]Duration{
		envReadTimeout:  c.HTTP.ReadTimeout,
		envWriteTimeout: c.HTTP.WriteTimeout,
		envIdleTimeout:  c.HTTP.IdleTimeout,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s cannot be negative, got %s", key, d))
		}
	}
	if c.Metrics.Enabled {
		if err := validatePort(envMetricsPort, c.Metrics.Port); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func validatePort(key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("%s must be a port number, got %q", key, value)
	}
	return nil
}
