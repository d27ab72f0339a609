// Package eventbus carries domain events between the application layer and
// their consumers, either in process or through RabbitMQ.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/google/uuid"
)

// Publisher sends a serialized envelope under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// PublishEvents wraps each event in an envelope and publishes it. It stops
// at the first failure.
func PublishEvents(ctx context.Context, pub Publisher, actorID uuid.UUID, events []domain.DomainEvent) error {
	for _, event := range events {
		env, err := NewEnvelope(event, actorID)
		if err != nil {
			return err
		}
		body, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("marshal envelope: %w", err)
		}
		if err := pub.Publish(ctx, env.RoutingKey, body); err != nil {
			return fmt.Errorf("publish %s: %w", env.RoutingKey, err)
		}
	}
	return nil
}

// NoopPublisher drops every message.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a publisher that only logs at debug level.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	p.logger.Debug("noop publish", "routing_key", routingKey, "size", len(payload))
	return nil
}

func (p *NoopPublisher) Close() error { return nil }
