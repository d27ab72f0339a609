package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/therapytrack/adapter/cli"
	"github.com/felixgeelhaar/therapytrack/adapter/cli/goal"
	"github.com/felixgeelhaar/therapytrack/adapter/cli/mcp"
	"github.com/felixgeelhaar/therapytrack/adapter/cli/patients"
	"github.com/felixgeelhaar/therapytrack/internal/app"
	mcpinternal "github.com/felixgeelhaar/therapytrack/internal/mcp"
	"github.com/felixgeelhaar/therapytrack/pkg/config"
	"github.com/felixgeelhaar/therapytrack/pkg/observability"
	"github.com/google/uuid"
)

func main() {
	// Warnings only until config says otherwise; stdout is the CLI's.
	logCfg := observability.DefaultLogConfig()
	logCfg.Level = "warn"
	logger := observability.NewLogger(logCfg)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.LogLevel == "debug" {
		logCfg.Level = cfg.LogLevel
		logger = observability.NewLogger(observability.LogConfigFromEnv(logCfg))
	}
	cli.SetLogger(logger)

	// version and help still work without storage.
	var cliApp *cli.App
	container, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		defer container.Close()

		userID, err := uuid.Parse(cfg.UserID)
		if err != nil {
			logger.Error("invalid THERAPYTRACK_USER_ID", "error", err)
			os.Exit(1)
		}
		cliApp = mcpinternal.NewCLIApp(container, userID)
	}

	cli.SetApp(cliApp)

	cli.AddCommand(goal.Cmd)
	cli.AddCommand(patients.Cmd)
	cli.AddCommand(mcp.Cmd)

	cli.ExecuteContext(ctx)
}
