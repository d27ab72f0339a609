package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixgeelhaar/therapytrack/adapter/api"
	"github.com/felixgeelhaar/therapytrack/internal/app"
	"github.com/felixgeelhaar/therapytrack/pkg/config"
	"github.com/felixgeelhaar/therapytrack/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	logger.Info("starting therapytrack api")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	// .env is applied by config.Load, so LOG_LEVEL and LOG_FORMAT may have changed.
	logger = observability.LoggerFromEnv()

	container, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	// Events published by other instances reach this one through RabbitMQ.
	// In local mode the in-process bus already delivers them.
	if container.Bus == nil {
		subscriber, err := container.NewEventSubscriber()
		if err != nil {
			logger.Error("failed to start event subscriber", "error", err)
			os.Exit(1)
		}
		defer subscriber.Close()

		go func() {
			if err := subscriber.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("event subscriber stopped", "error", err)
			}
		}()
	}

	handler := api.NewTrackingHandler(api.TrackingHandlerConfig{
		LogEntry:      container.LogEntryHandler,
		AssignGoal:    container.AssignGoalHandler,
		AddPatient:    container.AddPatientHandler,
		GetGoal:       container.GetGoalHandler,
		GetCalendar:   container.GetMonthCalendarHandler,
		GetWeek:       container.GetWeekProgressHandler,
		GetStats:      container.GetStatsHandler,
		GetDayEntries: container.GetDayEntriesHandler,
		ListPatients:  container.ListPatientsHandler,
		Policy:        container.Policy,
		Clock:         container.Clock,
		Logger:        logger,
	})

	serverCfg := api.DefaultServerConfig()
	serverCfg.Addr = cfg.APIAddr
	server := api.NewServer(serverCfg, handler, container.Health, container.Metrics, logger)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server error", "error", err)
			cancel()
		}
	}()

	// Wait for shutdown
	<-ctx.Done()
	logger.Info("shutting down api")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("api server shutdown error", "error", err)
	}
	logger.Info("api stopped")
}
