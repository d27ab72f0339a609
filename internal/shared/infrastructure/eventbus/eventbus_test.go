package eventbus_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/resilience"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionLogged struct {
	domain.BaseEvent
	Minutes int `json:"minutes"`
}

func newSessionLogged(minutes int) *sessionLogged {
	at := time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	return &sessionLogged{
		BaseEvent: domain.NewBaseEvent(uuid.New(), "LogEntry", "tracking.entry.logged", at),
		Minutes:   minutes,
	}
}

type recordingHandler struct {
	mu   sync.Mutex
	keys []string
	got  []*eventbus.Envelope
	err  error
}

func (h *recordingHandler) RoutingKeys() []string { return h.keys }

func (h *recordingHandler) Handle(_ context.Context, env *eventbus.Envelope) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.got = append(h.got, env)
	return h.err
}

type failingPublisher struct {
	calls int
	err   error
}

func (p *failingPublisher) Publish(context.Context, string, []byte) error {
	p.calls++
	return p.err
}

func (p *failingPublisher) Close() error { return nil }

func TestNewEnvelope(t *testing.T) {
	event := newSessionLogged(45)
	actor := uuid.New()

	env, err := eventbus.NewEnvelope(event, actor)
	require.NoError(t, err)

	assert.Equal(t, event.EventID(), env.EventID)
	assert.Equal(t, event.AggregateID(), env.AggregateID)
	assert.Equal(t, "LogEntry", env.AggregateType)
	assert.Equal(t, "tracking.entry.logged", env.RoutingKey)
	assert.Equal(t, actor, env.ActorID)
	assert.JSONEq(t, `{"minutes":45}`, string(env.Payload))

	var decoded struct {
		Minutes int `json:"minutes"`
	}
	require.NoError(t, env.DecodePayload(&decoded))
	assert.Equal(t, 45, decoded.Minutes)
}

func TestInProcessBus_PublishEvents(t *testing.T) {
	bus := eventbus.NewInProcessBus(nil)
	logged := &recordingHandler{keys: []string{"tracking.entry.logged"}}
	other := &recordingHandler{keys: []string{"tracking.goal.assigned"}}
	bus.Subscribe(logged)
	bus.Subscribe(other)

	events := []domain.DomainEvent{newSessionLogged(30), newSessionLogged(60)}
	require.NoError(t, eventbus.PublishEvents(context.Background(), bus, uuid.New(), events))

	require.Len(t, logged.got, 2)
	assert.Equal(t, events[0].EventID(), logged.got[0].EventID)
	assert.Empty(t, other.got)
	assert.Equal(t, []string{"tracking.entry.logged", "tracking.goal.assigned"}, bus.Router().RoutingKeys())
}

func TestInProcessBus_HandlerFailureDoesNotFailPublish(t *testing.T) {
	bus := eventbus.NewInProcessBus(nil)
	failing := &recordingHandler{keys: []string{"tracking.entry.logged"}, err: errors.New("boom")}
	healthy := &recordingHandler{keys: []string{"tracking.entry.logged"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := eventbus.PublishEvents(context.Background(), bus, uuid.Nil, []domain.DomainEvent{newSessionLogged(30)})
	require.NoError(t, err)
	assert.Len(t, failing.got, 1)
	assert.Len(t, healthy.got, 1)
}

func TestInProcessBus_UsesRoutingKeyWhenMissing(t *testing.T) {
	bus := eventbus.NewInProcessBus(nil)
	h := &recordingHandler{keys: []string{"tracking.goal.assigned"}}
	bus.Subscribe(h)

	body, err := json.Marshal(map[string]any{"event_id": uuid.New()})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), "tracking.goal.assigned", body))
	require.NoError(t, bus.Publish(context.Background(), "tracking.goal.assigned", []byte("not json")))

	assert.Len(t, h.got, 1)
}

func TestRouter_DispatchJoinsErrors(t *testing.T) {
	router := eventbus.NewRouter(nil)
	first := errors.New("first")
	second := errors.New("second")
	router.Register(&recordingHandler{keys: []string{"k"}, err: first})
	router.Register(&recordingHandler{keys: []string{"k"}, err: second})

	err := router.Dispatch(context.Background(), &eventbus.Envelope{RoutingKey: "k"})
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
	assert.Equal(t, 2, router.HandlerCount())

	assert.NoError(t, router.Dispatch(context.Background(), &eventbus.Envelope{RoutingKey: "unknown"}))
}

func TestBreakerPublisher_OpensAfterFailures(t *testing.T) {
	next := &failingPublisher{err: errors.New("broker down")}
	cfg := resilience.DefaultBreakerConfig("rabbitmq")
	cfg.FailureThreshold = 2
	cfg.Timeout = time.Hour
	pub := eventbus.NewBreakerPublisher(next, cfg, nil)

	ctx := context.Background()
	assert.Error(t, pub.Publish(ctx, "k", nil))
	assert.Error(t, pub.Publish(ctx, "k", nil))
	assert.ErrorIs(t, pub.Publish(ctx, "k", nil), resilience.ErrCircuitOpen)
	assert.Equal(t, 2, next.calls)
	assert.Equal(t, "open", pub.State())
}

func TestPublishEvents_StopsOnError(t *testing.T) {
	next := &failingPublisher{err: errors.New("down")}
	err := eventbus.PublishEvents(context.Background(), next, uuid.Nil,
		[]domain.DomainEvent{newSessionLogged(30), newSessionLogged(40)})
	assert.ErrorContains(t, err, "tracking.entry.logged")
	assert.Equal(t, 1, next.calls)

	assert.NoError(t, eventbus.NewNoopPublisher(nil).Publish(context.Background(), "k", []byte("{}")))
}
