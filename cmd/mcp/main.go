package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/therapytrack/internal/app"
	mcpinternal "github.com/felixgeelhaar/therapytrack/internal/mcp"
	"github.com/felixgeelhaar/therapytrack/pkg/config"
	"github.com/felixgeelhaar/therapytrack/pkg/observability"
	"github.com/google/uuid"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// .env is applied by config.Load. Logs stay on stderr, clear of stdio.
	logCfg := observability.LogConfigFromEnv(observability.DefaultLogConfig())
	if cfg.IsDevelopment() {
		logCfg.Level = "debug"
	}
	logger = observability.NewLogger(logCfg)

	container, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	userID, err := uuid.Parse(cfg.UserID)
	if err != nil {
		logger.Error("invalid THERAPYTRACK_USER_ID", "error", err)
		os.Exit(1)
	}

	cliApp := mcpinternal.NewCLIApp(container, userID)

	if err := mcpinternal.Serve(ctx, cfg, cliApp, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
