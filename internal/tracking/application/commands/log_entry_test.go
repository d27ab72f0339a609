package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	sharedDomain "github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/felixgeelhaar/therapytrack/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	fixedNow = time.Date(2024, time.June, 10, 14, 0, 0, 0, time.UTC)
	today    = domain.NewLocalDate(2024, time.June, 10)
)

func entryOn(t *testing.T, owner uuid.UUID, d domain.LocalDate, minutes int) *domain.LogEntry {
	t.Helper()
	e, err := domain.NewLogEntry(owner, d, minutes, "", fixedNow)
	require.NoError(t, err)
	return e
}

type logEntryFixture struct {
	entries   *mockLogEntryRepo
	goals     *mockGoalRepo
	uow       *mockUnitOfWork
	publisher *mockPublisher
	metrics   *observability.InMemoryMetrics
	handler   *LogEntryHandler
}

func newLogEntryFixture() *logEntryFixture {
	f := &logEntryFixture{
		entries:   new(mockLogEntryRepo),
		goals:     new(mockGoalRepo),
		uow:       new(mockUnitOfWork),
		publisher: new(mockPublisher),
		metrics:   observability.NewInMemoryMetrics(),
	}
	f.handler = NewLogEntryHandler(
		f.entries, f.goals, f.uow, f.publisher,
		domain.NewBoundaryPolicy(time.UTC, domain.DefaultLookbackDays),
		sharedDomain.NewFixedClock(fixedNow),
		f.metrics, nil,
	)
	return f
}

func TestLogEntryHandler_Handle(t *testing.T) {
	ownerID := uuid.New()

	t.Run("crossing the daily goal publishes an achievement", func(t *testing.T) {
		f := newLogEntryFixture()
		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		f.uow.On("Begin", ctx).Return(txCtx, nil)
		f.uow.On("Commit", txCtx).Return(nil)
		f.entries.On("CountByOwnerAndDate", txCtx, ownerID, today).Return(2, nil)
		f.entries.On("Create", txCtx, mock.AnythingOfType("*domain.LogEntry")).Return(nil)
		f.entries.On("ListByOwnerAndRange", txCtx, ownerID, today, today).Return([]*domain.LogEntry{
			entryOn(t, ownerID, today, 50),
			entryOn(t, ownerID, today, 70),
			entryOn(t, ownerID, today, 150),
		}, nil)
		f.goals.On("GetByOwner", txCtx, ownerID).Return(nil, nil)
		f.publisher.On("Publish", ctx, domain.RoutingKeyEntryLogged, mock.Anything).Return(nil).Once()
		f.publisher.On("Publish", ctx, domain.RoutingKeyGoalAchieved, mock.Anything).Return(nil).Once()

		result, err := f.handler.Handle(ctx, LogEntryCommand{
			OwnerID:         ownerID,
			DurationMinutes: 150,
			Note:            "pool session",
		})

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.NotEqual(t, uuid.Nil, result.EntryID)
		assert.Equal(t, today, result.Date)
		assert.Equal(t, 270, result.DayTotalMinutes)
		assert.Equal(t, 3, result.DayEntryCount)
		assert.Equal(t, 240, result.DailyGoalMinutes)
		assert.InDelta(t, 112.5, result.DayPercentage, 1e-9)
		assert.True(t, result.GoalAchieved)

		assert.Equal(t, int64(1), f.metrics.GetCounter(observability.MetricEntriesLogged))
		assert.Equal(t, int64(1), f.metrics.GetCounter(observability.MetricGoalsCrossed))

		f.uow.AssertExpectations(t)
		f.entries.AssertExpectations(t)
		f.goals.AssertExpectations(t)
		f.publisher.AssertExpectations(t)
	})

	t.Run("a day already over goal does not achieve again", func(t *testing.T) {
		f := newLogEntryFixture()
		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")
		yesterday := today.AddDays(-1)

		goal, err := domain.NewDefaultGoalConfig(ownerID, fixedNow)
		require.NoError(t, err)
		require.NoError(t, goal.Assign(120, 840, nil, fixedNow))

		f.uow.On("Begin", ctx).Return(txCtx, nil)
		f.uow.On("Commit", txCtx).Return(nil)
		f.entries.On("CountByOwnerAndDate", txCtx, ownerID, yesterday).Return(1, nil)
		f.entries.On("Create", txCtx, mock.AnythingOfType("*domain.LogEntry")).Return(nil)
		f.entries.On("ListByOwnerAndRange", txCtx, ownerID, yesterday, yesterday).Return([]*domain.LogEntry{
			entryOn(t, ownerID, yesterday, 150),
			entryOn(t, ownerID, yesterday, 60),
		}, nil)
		f.goals.On("GetByOwner", txCtx, ownerID).Return(goal, nil)
		f.publisher.On("Publish", ctx, domain.RoutingKeyEntryLogged, mock.Anything).Return(nil).Once()

		result, err := f.handler.Handle(ctx, LogEntryCommand{
			OwnerID:         ownerID,
			Date:            yesterday,
			DurationMinutes: 60,
		})

		require.NoError(t, err)
		assert.Equal(t, 210, result.DayTotalMinutes)
		assert.Equal(t, 120, result.DailyGoalMinutes)
		assert.InDelta(t, 175.0, result.DayPercentage, 1e-9)
		assert.False(t, result.GoalAchieved)
		f.publisher.AssertExpectations(t)
		f.publisher.AssertNotCalled(t, "Publish", ctx, domain.RoutingKeyGoalAchieved, mock.Anything)
	})

	t.Run("publish failures do not fail the command", func(t *testing.T) {
		f := newLogEntryFixture()
		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		f.uow.On("Begin", ctx).Return(txCtx, nil)
		f.uow.On("Commit", txCtx).Return(nil)
		f.entries.On("CountByOwnerAndDate", txCtx, ownerID, today).Return(0, nil)
		f.entries.On("Create", txCtx, mock.AnythingOfType("*domain.LogEntry")).Return(nil)
		f.entries.On("ListByOwnerAndRange", txCtx, ownerID, today, today).Return([]*domain.LogEntry{
			entryOn(t, ownerID, today, 30),
		}, nil)
		f.goals.On("GetByOwner", txCtx, ownerID).Return(nil, nil)
		f.publisher.On("Publish", ctx, domain.RoutingKeyEntryLogged, mock.Anything).Return(errors.New("broker down"))

		result, err := f.handler.Handle(ctx, LogEntryCommand{OwnerID: ownerID, DurationMinutes: 30})

		require.NoError(t, err)
		assert.Equal(t, 30, result.DayTotalMinutes)
	})

	t.Run("rejects the eleventh entry of a day", func(t *testing.T) {
		f := newLogEntryFixture()
		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		f.uow.On("Begin", ctx).Return(txCtx, nil)
		f.uow.On("Rollback", txCtx).Return(nil)
		f.entries.On("CountByOwnerAndDate", txCtx, ownerID, today).Return(domain.MaxEntriesPerDay, nil)

		result, err := f.handler.Handle(ctx, LogEntryCommand{OwnerID: ownerID, DurationMinutes: 45})

		assert.ErrorIs(t, err, domain.ErrDailyEntryLimit)
		assert.Nil(t, result)
		f.entries.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.uow.AssertExpectations(t)
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid duration inside the transaction", func(t *testing.T) {
		f := newLogEntryFixture()
		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		f.uow.On("Begin", ctx).Return(txCtx, nil)
		f.uow.On("Rollback", txCtx).Return(nil)
		f.entries.On("CountByOwnerAndDate", txCtx, ownerID, today).Return(0, nil)

		_, err := f.handler.Handle(ctx, LogEntryCommand{OwnerID: ownerID, DurationMinutes: 29})

		assert.ErrorIs(t, err, domain.ErrDurationOutOfRange)
		f.uow.AssertExpectations(t)
	})

	t.Run("dates outside the loggable window never open a transaction", func(t *testing.T) {
		tests := []struct {
			name  string
			date  domain.LocalDate
			bound domain.Bound
		}{
			{name: "tomorrow", date: today.AddDays(1), bound: domain.BoundFuture},
			{name: "six days ago", date: today.AddDays(-6), bound: domain.BoundTooOld},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newLogEntryFixture()

				_, err := f.handler.Handle(context.Background(), LogEntryCommand{
					OwnerID:         ownerID,
					Date:            tt.date,
					DurationMinutes: 60,
				})

				var rangeErr *domain.OutOfRangeError
				require.ErrorAs(t, err, &rangeErr)
				assert.Equal(t, tt.bound, rangeErr.Bound)
				f.uow.AssertNotCalled(t, "Begin", mock.Anything)
				assert.Equal(t, int64(1), f.metrics.GetCounter(observability.MetricEntriesRejected, observability.T("reason", "date_range")))
			})
		}
	})

	t.Run("five days ago is still loggable", func(t *testing.T) {
		f := newLogEntryFixture()
		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")
		oldest := today.AddDays(-5)

		f.uow.On("Begin", ctx).Return(txCtx, nil)
		f.uow.On("Commit", txCtx).Return(nil)
		f.entries.On("CountByOwnerAndDate", txCtx, ownerID, oldest).Return(0, nil)
		f.entries.On("Create", txCtx, mock.AnythingOfType("*domain.LogEntry")).Return(nil)
		f.entries.On("ListByOwnerAndRange", txCtx, ownerID, oldest, oldest).Return([]*domain.LogEntry{
			entryOn(t, ownerID, oldest, 240),
		}, nil)
		f.goals.On("GetByOwner", txCtx, ownerID).Return(nil, nil)
		f.publisher.On("Publish", ctx, mock.Anything, mock.Anything).Return(nil)

		result, err := f.handler.Handle(ctx, LogEntryCommand{OwnerID: ownerID, Date: oldest, DurationMinutes: 240})

		require.NoError(t, err)
		assert.Equal(t, oldest, result.Date)
		assert.True(t, result.GoalAchieved)
	})
}
