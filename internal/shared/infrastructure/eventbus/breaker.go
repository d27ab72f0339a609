package eventbus

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/resilience"
)

// BreakerPublisher stops calling a failing broker until its breaker
// recovers. Publishes while open fail fast with resilience.ErrCircuitOpen.
type BreakerPublisher struct {
	next    Publisher
	breaker *resilience.Breaker[struct{}]
}

// NewBreakerPublisher wraps next.
func NewBreakerPublisher(next Publisher, cfg resilience.BreakerConfig, logger *slog.Logger) *BreakerPublisher {
	if cfg.Name == "" {
		cfg.Name = "eventbus"
	}
	return &BreakerPublisher{
		next:    next,
		breaker: resilience.NewBreaker[struct{}](cfg, logger),
	}
}

func (p *BreakerPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	_, err := p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.next.Publish(ctx, routingKey, payload)
	})
	return err
}

// State reports the breaker state for health checks.
func (p *BreakerPublisher) State() string { return p.breaker.State() }

func (p *BreakerPublisher) Close() error { return p.next.Close() }
