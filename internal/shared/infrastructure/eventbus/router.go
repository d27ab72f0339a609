package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
)

// Handler reacts to envelopes with the routing keys it declares.
type Handler interface {
	RoutingKeys() []string
	Handle(ctx context.Context, env *Envelope) error
}

// Router dispatches envelopes to the handlers registered for their key.
type Router struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
}

// NewRouter creates an empty router.
func NewRouter(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Register adds h under each of its routing keys.
func (r *Router) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range h.RoutingKeys() {
		r.handlers[key] = append(r.handlers[key], h)
		r.logger.Debug("registered event handler", "routing_key", key)
	}
}

// RoutingKeys lists every key with at least one handler, sorted.
func (r *Router) RoutingKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.handlers))
	for key := range r.handlers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// HandlerCount returns the number of registrations across all keys.
func (r *Router) HandlerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, hs := range r.handlers {
		n += len(hs)
	}
	return n
}

// Dispatch calls every handler for the envelope's key. A failing handler
// does not stop the others; their errors are joined.
func (r *Router) Dispatch(ctx context.Context, env *Envelope) error {
	r.mu.RLock()
	handlers := append([]Handler(nil), r.handlers[env.RoutingKey]...)
	r.mu.RUnlock()

	if len(handlers) == 0 {
		r.logger.Debug("no handlers for event", "routing_key", env.RoutingKey)
		return nil
	}

	var errs []error
	for _, h := range handlers {
		if err := h.Handle(ctx, env); err != nil {
			r.logger.Error("event handler failed",
				"routing_key", env.RoutingKey,
				"event_id", env.EventID,
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
