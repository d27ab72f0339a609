package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedDomain "github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/cache"
	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/felixgeelhaar/therapytrack/pkg/observability"
)

func envelopeOf(t *testing.T, event sharedDomain.DomainEvent, actor uuid.UUID) *eventbus.Envelope {
	t.Helper()
	env, err := eventbus.NewEnvelope(event, actor)
	require.NoError(t, err)
	return env
}

func TestPatientCacheInvalidator(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	doctor := uuid.New()
	patient := uuid.New()

	seed := func(t *testing.T) *cache.MemoryCache {
		c := cache.NewMemoryCache(sharedDomain.NewFixedClock(now))
		require.NoError(t, c.Put(ctx, PatientListCacheKey(doctor), []byte(`[]`)))
		return c
	}

	t.Run("patient linked drops the clinician list", func(t *testing.T) {
		c := seed(t)
		h := NewPatientCacheInvalidator(c, nil)

		link, err := domain.NewCareLink(doctor, patient, now)
		require.NoError(t, err)
		require.NoError(t, h.Handle(ctx, envelopeOf(t, domain.NewPatientLinkedEvent(link), doctor)))

		_, found, err := c.Get(ctx, PatientListCacheKey(doctor), time.Hour)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("goal set by clinician drops their list", func(t *testing.T) {
		c := seed(t)
		h := NewPatientCacheInvalidator(c, nil)

		goal, err := domain.NewDefaultGoalConfig(patient, now)
		require.NoError(t, err)
		require.NoError(t, goal.Assign(120, 840, &doctor, now))

		require.NoError(t, h.Handle(ctx, envelopeOf(t, goal.DomainEvents()[0], doctor)))
		assert.Zero(t, c.Len())
	})

	t.Run("goal set by owner keeps cached lists", func(t *testing.T) {
		c := seed(t)
		h := NewPatientCacheInvalidator(c, nil)

		goal, err := domain.NewDefaultGoalConfig(patient, now)
		require.NoError(t, err)
		require.NoError(t, goal.Assign(120, 840, nil, now))

		require.NoError(t, h.Handle(ctx, envelopeOf(t, goal.DomainEvents()[0], patient)))
		assert.Equal(t, 1, c.Len())
	})

	t.Run("subscribes through the in-process bus", func(t *testing.T) {
		c := seed(t)
		bus := eventbus.NewInProcessBus(nil)
		bus.Subscribe(NewPatientCacheInvalidator(c, nil))

		link, err := domain.NewCareLink(doctor, patient, now)
		require.NoError(t, err)
		require.NoError(t, eventbus.PublishEvents(ctx, bus, doctor, []sharedDomain.DomainEvent{domain.NewPatientLinkedEvent(link)}))

		assert.Zero(t, c.Len())
	})
}

func TestGoalAchievedNotifier(t *testing.T) {
	metrics := observability.NewInMemoryMetrics()
	n := NewGoalAchievedNotifier(metrics, nil)
	assert.Equal(t, []string{domain.RoutingKeyGoalAchieved}, n.RoutingKeys())

	owner := uuid.New()
	event := domain.NewDailyGoalAchievedEvent(owner, domain.NewLocalDate(2024, 6, 10), 270, 240, time.Now())

	require.NoError(t, n.Handle(context.Background(), envelopeOf(t, event, owner)))
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricGoalsAchieved))
}
