package server

import (
	"time"

	"github.com/preston-bernstein/football-scoreboard/internal/config"
)

// Fallbacks for zero values in config.HTTPConfig.
const (
	readTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 60 * time.Second
)

// shutdownTimeout applies when config.Config.ShutdownTimeout is unset; a var for tests.
var shutdownTimeout = 10 * time.Second

type listenerTimeouts struct {
	read, write, idle time.Duration
}

func timeoutsFrom(cfg config.HTTPConfig) listenerTimeouts {
	return listenerTimeouts{
		read:  orDefault(cfg.ReadTimeout, readTimeout),
		write: orDefault(cfg.WriteTimeout, writeTimeout),
		idle:  orDefault(cfg.IdleTimeout, idleTimeout),
	}
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
