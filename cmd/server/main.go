package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/preston-bernstein/football-scoreboard/internal/config"
	"github.com/preston-bernstein/football-scoreboard/internal/logging"
	"github.com/preston-bernstein/football-scoreboard/internal/server"
)

const (
	appVersion  = "dev"
	serviceName = "football-scoreboard"
)

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error(logging.NewLogger(logging.Config{Service: serviceName}), "invalid configuration", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: serviceName,
		Version: appVersion,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(cfg, logger)
	if err != nil {
		logging.Error(logger, "failed to build server", err)
		stop()
		os.Exit(1)
	}
	srv.Run(ctx, stop)
}
