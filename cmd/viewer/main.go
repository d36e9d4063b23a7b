package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/sleeper-league-viewer/internal/app"
	"github.com/riskibarqy/sleeper-league-viewer/internal/config"
	"github.com/riskibarqy/sleeper-league-viewer/internal/observability"
	"github.com/riskibarqy/sleeper-league-viewer/internal/platform/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogFormat(), cfg.LogLevel).With(
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
	)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("viewer exited", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *logging.Logger) error {
	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := stopProfiler(); err != nil {
			logger.Warn("pyroscope stop failed", "error", err)
		}
	}()

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := observability.StopPprofServer(pprofSrv, logger, shutdownTimeout); err != nil {
			logger.Warn("pprof shutdown failed", "error", err)
		}
	}()

	viewer, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return viewer.Run(ctx, shutdownTimeout)
}
