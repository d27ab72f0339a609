// Package resilience wraps calls to remote dependencies in circuit breakers.
package resilience

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned instead of calling a dependency whose breaker
// is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// BreakerConfig tunes a circuit breaker.
type BreakerConfig struct {
	// Name identifies the protected dependency in logs.
	Name string
	// MaxRequests is how many trial calls pass while half-open.
	MaxRequests uint32
	// Interval clears the failure counts while closed.
	Interval time.Duration
	// Timeout is how long the breaker stays open.
	Timeout time.Duration
	// FailureThreshold trips the breaker after this many consecutive failures.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns the settings used for brokers and caches.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// Breaker guards calls returning T.
type Breaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// NewBreaker creates a breaker that logs state transitions.
func NewBreaker[T any](cfg BreakerConfig, logger *slog.Logger) *Breaker[T] {
	if logger == nil {
		logger = slog.Default()
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return &Breaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

// Execute runs fn unless the breaker is open. gobreaker's open and
// too-many-requests errors are reported as ErrCircuitOpen.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	result, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		var zero T
		return zero, ErrCircuitOpen
	}
	return result, err
}

// State returns "closed", "half-open" or "open".
func (b *Breaker[T]) State() string {
	return b.cb.State().String()
}
