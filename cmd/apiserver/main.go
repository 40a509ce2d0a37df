// API server entry point for the AgriMat platform.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/AgriMat-Platform/internal/config"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/internal/platform"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	path := *configPath
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %s not readable, using environment and defaults: %v\n", path, err)
		path = ""
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *httpPort > 0 {
		cfg.Server.Port = *httpPort
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	logger.Info("starting AgriMat API server",
		logging.String("version", platform.Version),
		logging.String("commit", platform.GitCommit),
		logging.Int("http_port", cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := platform.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("platform initialization failed", logging.Err(err))
		os.Exit(1)
	}
	p.WatchConfig(path)

	if err := p.Serve(ctx); err != nil {
		logger.Error("http server error", logging.Err(err))
	}
	if err := p.Close(); err != nil {
		logger.Warn("shutdown error", logging.Err(err))
	}
	logger.Info("server stopped")
}
