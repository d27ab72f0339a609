package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/google/uuid"
)

// Envelope is the wire form of a domain event: routing metadata plus the
// event's JSON payload.
type Envelope struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	ActorID       uuid.UUID       `json:"actor_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEnvelope wraps a domain event. actorID is the user whose command
// produced it.
func NewEnvelope(event domain.DomainEvent, actorID uuid.UUID) (*Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", event.RoutingKey(), err)
	}
	return &Envelope{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		ActorID:       actorID,
		Payload:       payload,
	}, nil
}

// DecodePayload unmarshals the payload into v.
func (e *Envelope) DecodePayload(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.RoutingKey, err)
	}
	return nil
}

func decodeEnvelope(routingKey string, body []byte) (*Envelope, error) {
	env := &Envelope{}
	if err := json.Unmarshal(body, env); err != nil {
		return nil, err
	}
	if env.RoutingKey == "" {
		env.RoutingKey = routingKey
	}
	return env, nil
}
