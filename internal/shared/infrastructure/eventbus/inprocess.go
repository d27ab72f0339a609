package eventbus

import (
	"context"
	"log/slog"
	"time"
)

// InProcessBus delivers published envelopes synchronously to its router.
// It replaces RabbitMQ in local mode. Handler failures are logged and never
// fail the publisher, matching broker semantics where delivery is decoupled
// from the write.
type InProcessBus struct {
	router *Router
	logger *slog.Logger
}

// NewInProcessBus creates a bus with an empty router.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{router: NewRouter(logger), logger: logger}
}

// Subscribe registers a handler.
func (b *InProcessBus) Subscribe(h Handler) {
	b.router.Register(h)
}

// Router exposes the underlying router.
func (b *InProcessBus) Router() *Router { return b.router }

func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	env, err := decodeEnvelope(routingKey, payload)
	if err != nil {
		b.logger.Error("dropping undecodable event", "routing_key", routingKey, "error", err)
		return nil
	}

	start := time.Now()
	if err := b.router.Dispatch(ctx, env); err != nil {
		b.logger.Error("event dispatch failed",
			"routing_key", env.RoutingKey,
			"event_id", env.EventID,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil
	}
	b.logger.Debug("event dispatched",
		"routing_key", env.RoutingKey,
		"event_id", env.EventID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (b *InProcessBus) Close() error { return nil }
