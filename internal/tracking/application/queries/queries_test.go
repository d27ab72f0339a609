package queries

import (
	"context"
	"testing"
	"time"

	sharedDomain "github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/cache"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain/progress"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	// Monday 2024-06-10, 14:00 UTC.
	fixedNow  = time.Date(2024, time.June, 10, 14, 0, 0, 0, time.UTC)
	today     = domain.NewLocalDate(2024, time.June, 10)
	weekStart = domain.NewLocalDate(2024, time.June, 9)
	policy    = domain.NewBoundaryPolicy(time.UTC, domain.DefaultLookbackDays)
)

func entryOn(t *testing.T, owner uuid.UUID, d domain.LocalDate, minutes int, note string, offset time.Duration) *domain.LogEntry {
	t.Helper()
	e, err := domain.NewLogEntry(owner, d, minutes, note, fixedNow.Add(offset))
	require.NoError(t, err)
	return e
}

func TestGetGoalHandler_Handle(t *testing.T) {
	ownerID := uuid.New()
	clock := sharedDomain.NewFixedClock(fixedNow)

	t.Run("returns the stored goal", func(t *testing.T) {
		goals := new(mockGoalRepo)
		careTeam := new(mockCareTeamRepo)
		goal, err := domain.NewDefaultGoalConfig(ownerID, fixedNow)
		require.NoError(t, err)
		require.NoError(t, goal.Assign(150, 1050, nil, fixedNow))
		goals.On("GetByOwner", mock.Anything, ownerID).Return(goal, nil)

		dto, err := NewGetGoalHandler(goals, careTeam, clock).Handle(context.Background(), GetGoalQuery{ViewerID: ownerID, OwnerID: ownerID})

		require.NoError(t, err)
		assert.Equal(t, goal.ID(), dto.ID)
		assert.Equal(t, 150, dto.DailyGoalMinutes)
		assert.Equal(t, 1050, dto.WeeklyGoalMinutes)
		goals.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("creates the default goal on first read", func(t *testing.T) {
		goals := new(mockGoalRepo)
		careTeam := new(mockCareTeamRepo)
		goals.On("GetByOwner", mock.Anything, ownerID).Return(nil, nil)
		goals.On("CreateIfAbsent", mock.Anything, mock.MatchedBy(func(g *domain.GoalConfig) bool {
			return g.OwnerID() == ownerID && g.DailyGoalMinutes() == 240 && g.WeeklyGoalMinutes() == 1680
		})).Return(true, nil)

		dto, err := NewGetGoalHandler(goals, careTeam, clock).Handle(context.Background(), GetGoalQuery{ViewerID: ownerID, OwnerID: ownerID})

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultDailyGoalMinutes, dto.DailyGoalMinutes)
		assert.Equal(t, domain.DefaultWeeklyGoalMinutes, dto.WeeklyGoalMinutes)
		assert.Nil(t, dto.SetByDoctorID)
		goals.AssertExpectations(t)
	})

	t.Run("keeps a goal assigned between the read and the default insert", func(t *testing.T) {
		goals := new(mockGoalRepo)
		careTeam := new(mockCareTeamRepo)
		doctorID := uuid.New()
		assigned, err := domain.NewDefaultGoalConfig(ownerID, fixedNow)
		require.NoError(t, err)
		require.NoError(t, assigned.Assign(300, 2100, &doctorID, fixedNow))
		goals.On("GetByOwner", mock.Anything, ownerID).Return(nil, nil).Once()
		goals.On("CreateIfAbsent", mock.Anything, mock.AnythingOfType("*domain.GoalConfig")).Return(false, nil)
		goals.On("GetByOwner", mock.Anything, ownerID).Return(assigned, nil).Once()

		dto, err := NewGetGoalHandler(goals, careTeam, clock).Handle(context.Background(), GetGoalQuery{ViewerID: ownerID, OwnerID: ownerID})

		require.NoError(t, err)
		assert.Equal(t, 300, dto.DailyGoalMinutes)
		assert.Equal(t, 2100, dto.WeeklyGoalMinutes)
		require.NotNil(t, dto.SetByDoctorID)
		assert.Equal(t, doctorID, *dto.SetByDoctorID)
		goals.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		goals.AssertExpectations(t)
	})

	t.Run("strangers are rejected", func(t *testing.T) {
		goals := new(mockGoalRepo)
		careTeam := new(mockCareTeamRepo)
		stranger := uuid.New()
		careTeam.On("IsLinked", mock.Anything, stranger, ownerID).Return(false, nil)

		_, err := NewGetGoalHandler(goals, careTeam, clock).Handle(context.Background(), GetGoalQuery{ViewerID: stranger, OwnerID: ownerID})

		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
		goals.AssertNotCalled(t, "GetByOwner", mock.Anything, mock.Anything)
	})
}

func TestGetMonthCalendarHandler_Handle(t *testing.T) {
	ownerID := uuid.New()
	doctorID := uuid.New()
	clock := sharedDomain.NewFixedClock(fixedNow)

	t.Run("defaults to the current month", func(t *testing.T) {
		entries := new(mockLogEntryRepo)
		goals := new(mockGoalRepo)
		careTeam := new(mockCareTeamRepo)
		first := domain.NewLocalDate(2024, time.June, 1)
		last := domain.NewLocalDate(2024, time.June, 30)

		careTeam.On("IsLinked", mock.Anything, doctorID, ownerID).Return(true, nil)
		goals.On("GetByOwner", mock.Anything, ownerID).Return(nil, nil)
		entries.On("ListByOwnerAndRange", mock.Anything, ownerID, first, last).Return([]*domain.LogEntry{
			entryOn(t, ownerID, today, 50, "", 0),
			entryOn(t, ownerID, today, 70, "", time.Minute),
			entryOn(t, ownerID, today, 150, "felt good", 2*time.Minute),
			entryOn(t, ownerID, first, 30, "", 0),
		}, nil)

		handler := NewGetMonthCalendarHandler(entries, goals, careTeam, policy, clock)
		cal, err := handler.Handle(context.Background(), GetMonthCalendarQuery{ViewerID: doctorID, OwnerID: ownerID})

		require.NoError(t, err)
		assert.Equal(t, 2024, cal.Year)
		assert.Equal(t, time.June, cal.Month)
		require.Len(t, cal.Days, 30)

		day := cal.Days[9]
		assert.Equal(t, today, day.Date)
		assert.True(t, day.IsToday)
		assert.Equal(t, 270, day.TotalMinutes)
		assert.Equal(t, 113, day.DisplayPercent)
		assert.Equal(t, progress.BandExceeded, day.Band)
		assert.True(t, day.HasNotes)

		assert.Equal(t, progress.BandMinimal, cal.Days[0].Band)
		assert.Equal(t, progress.BandNone, cal.Days[1].Band)
		assert.Equal(t, 300, cal.Summary.TotalMinutes)
		assert.InDelta(t, 150.0, cal.Summary.AverageMinutes, 1e-9)
		assert.Equal(t, 2, cal.Summary.ActiveDayCount)
		entries.AssertExpectations(t)
	})

	t.Run("explicit month uses its own range", func(t *testing.T) {
		entries := new(mockLogEntryRepo)
		goals := new(mockGoalRepo)
		careTeam := new(mockCareTeamRepo)

		goals.On("GetByOwner", mock.Anything, ownerID).Return(nil, nil)
		entries.On("ListByOwnerAndRange", mock.Anything, ownerID,
			domain.NewLocalDate(2024, time.February, 1), domain.NewLocalDate(2024, time.February, 29)).
			Return([]*domain.LogEntry{}, nil)

		handler := NewGetMonthCalendarHandler(entries, goals, careTeam, policy, clock)
		cal, err := handler.Handle(context.Background(), GetMonthCalendarQuery{
			ViewerID: ownerID, OwnerID: ownerID, Year: 2024, Month: time.February,
		})

		require.NoError(t, err)
		assert.Len(t, cal.Days, 29)
		assert.Zero(t, cal.Summary.AverageMinutes)
		for _, d := range cal.Days {
			assert.False(t, d.IsToday)
		}
	})
}

func TestGetWeekProgressHandler_Handle(t *testing.T) {
	ownerID := uuid.New()
	entries := new(mockLogEntryRepo)
	goals := new(mockGoalRepo)
	careTeam := new(mockCareTeamRepo)

	goal, err := domain.NewDefaultGoalConfig(ownerID, fixedNow)
	require.NoError(t, err)
	require.NoError(t, goal.Assign(60, 420, nil, fixedNow))

	goals.On("GetByOwner", mock.Anything, ownerID).Return(goal, nil)
	entries.On("ListByOwnerAndRange", mock.Anything, ownerID, weekStart, weekStart.AddDays(6)).Return([]*domain.LogEntry{
		entryOn(t, ownerID, weekStart, 60, "", 0),
		entryOn(t, ownerID, today, 150, "", 0),
	}, nil)

	handler := NewGetWeekProgressHandler(entries, goals, careTeam, policy, sharedDomain.NewFixedClock(fixedNow))
	week, err := handler.Handle(context.Background(), GetWeekProgressQuery{ViewerID: ownerID, OwnerID: ownerID})

	require.NoError(t, err)
	assert.Equal(t, weekStart, week.WeekStart)
	require.Len(t, week.Days, 7)
	assert.True(t, week.Days[1].IsToday)
	assert.Equal(t, 210, week.WeeklyTotalMinutes)
	assert.InDelta(t, 50.0, week.WeeklyPercentage, 1e-9)
	assert.Equal(t, 2, week.DaysGoalMet)
	assert.Equal(t, 1.0, week.Days[1].RingFraction)
}

func TestGetStatsHandler_Handle(t *testing.T) {
	ownerID := uuid.New()
	entries := new(mockLogEntryRepo)
	goals := new(mockGoalRepo)
	careTeam := new(mockCareTeamRepo)
	from := today.AddDays(-(DefaultStatsDays - 1))

	goals.On("GetByOwner", mock.Anything, ownerID).Return(nil, nil)
	entries.On("ListByOwnerAndRange", mock.Anything, ownerID, from, today).Return([]*domain.LogEntry{
		entryOn(t, ownerID, today.AddDays(-2), 240, "", 0),
		entryOn(t, ownerID, today.AddDays(-1), 300, "", 0),
		entryOn(t, ownerID, today, 60, "", 0),
	}, nil)

	handler := NewGetStatsHandler(entries, goals, careTeam, policy, sharedDomain.NewFixedClock(fixedNow))
	stats, err := handler.Handle(context.Background(), GetStatsQuery{ViewerID: ownerID, OwnerID: ownerID})

	require.NoError(t, err)
	assert.Equal(t, from, stats.From)
	assert.Equal(t, today, stats.To)
	assert.Equal(t, 240, stats.DailyGoalMinutes)
	assert.Equal(t, 2, stats.CurrentStreak)
	assert.Equal(t, 2, stats.LongestStreak)
	assert.Equal(t, 3, stats.ActiveDays)
	assert.Equal(t, 600, stats.TotalMinutes)
	require.NotNil(t, stats.BestDay)
	assert.Equal(t, today.AddDays(-1), stats.BestDay.Date)
}

func TestGetDayEntriesHandler_Handle(t *testing.T) {
	ownerID := uuid.New()

	t.Run("orders entries and evaluates the day", func(t *testing.T) {
		entries := new(mockLogEntryRepo)
		goals := new(mockGoalRepo)
		late := entryOn(t, ownerID, today, 150, "", 2*time.Hour)
		early := entryOn(t, ownerID, today, 50, "warm-up", 0)
		mid := entryOn(t, ownerID, today, 70, "", time.Hour)

		goals.On("GetByOwner", mock.Anything, ownerID).Return(nil, nil)
		entries.On("ListByOwnerAndRange", mock.Anything, ownerID, today, today).Return([]*domain.LogEntry{late, early, mid}, nil)

		handler := NewGetDayEntriesHandler(entries, goals, new(mockCareTeamRepo), policy, sharedDomain.NewFixedClock(fixedNow))
		day, err := handler.Handle(context.Background(), GetDayEntriesQuery{ViewerID: ownerID, OwnerID: ownerID})

		require.NoError(t, err)
		assert.Equal(t, 270, day.TotalMinutes)
		assert.Equal(t, 3, day.EntryCount)
		assert.InDelta(t, 112.5, day.Percentage, 1e-9)
		assert.Equal(t, 113, day.DisplayPercent)
		assert.Equal(t, progress.BandExceeded, day.Band)
		assert.True(t, day.Loggable)
		require.Len(t, day.Entries, 3)
		assert.Equal(t, early.ID(), day.Entries[0].ID)
		assert.Equal(t, mid.ID(), day.Entries[1].ID)
		assert.Equal(t, late.ID(), day.Entries[2].ID)
		assert.Equal(t, "warm-up", day.Entries[0].Note)
	})

	t.Run("empty day has no band and old days are not loggable", func(t *testing.T) {
		entries := new(mockLogEntryRepo)
		goals := new(mockGoalRepo)
		old := today.AddDays(-6)

		goals.On("GetByOwner", mock.Anything, ownerID).Return(nil, nil)
		entries.On("ListByOwnerAndRange", mock.Anything, ownerID, old, old).Return([]*domain.LogEntry{}, nil)

		handler := NewGetDayEntriesHandler(entries, goals, new(mockCareTeamRepo), policy, sharedDomain.NewFixedClock(fixedNow))
		day, err := handler.Handle(context.Background(), GetDayEntriesQuery{ViewerID: ownerID, OwnerID: ownerID, Date: old})

		require.NoError(t, err)
		assert.Equal(t, progress.BandNone, day.Band)
		assert.False(t, day.Loggable)
		assert.NotNil(t, day.Entries)
		assert.Empty(t, day.Entries)
	})
}

func TestListPatientsHandler_Handle(t *testing.T) {
	doctorID := uuid.New()
	patientID := uuid.New()
	ctx := context.Background()

	setup := func(t *testing.T) (*ListPatientsHandler, *mockCareTeamRepo, *mockLogEntryRepo, *sharedDomain.FixedClock) {
		clock := sharedDomain.NewFixedClock(fixedNow)
		careTeam := new(mockCareTeamRepo)
		entries := new(mockLogEntryRepo)

		careTeam.On("ListPatients", mock.Anything, doctorID).Return([]domain.PatientSummary{{
			PatientID:         patientID,
			LinkedAt:          fixedNow.Add(-72 * time.Hour),
			DailyGoalMinutes:  60,
			WeeklyGoalMinutes: 420,
			LastEntryDate:     &today,
		}}, nil)
		entries.On("ListByOwnerAndRange", mock.Anything, patientID, weekStart, weekStart.AddDays(6)).Return([]*domain.LogEntry{
			entryOn(t, patientID, weekStart, 90, "", 0),
			entryOn(t, patientID, today, 120, "", 0),
		}, nil)

		handler := NewListPatientsHandler(careTeam, entries, cache.NewMemoryCache(clock), 0, policy, clock, nil, nil)
		return handler, careTeam, entries, clock
	}

	t.Run("computes this week's progress", func(t *testing.T) {
		handler, _, _, _ := setup(t)

		list, err := handler.Handle(ctx, ListPatientsQuery{ClinicianID: doctorID})

		require.NoError(t, err)
		assert.Equal(t, weekStart, list.WeekStart)
		require.Len(t, list.Patients, 1)
		p := list.Patients[0]
		assert.Equal(t, patientID, p.PatientID)
		assert.Equal(t, 210, p.WeeklyTotalMinutes)
		assert.InDelta(t, 50.0, p.WeeklyPercentage, 1e-9)
		assert.Equal(t, 50, p.WeeklyDisplayPercent)
		assert.Equal(t, 2, p.DaysGoalMet)
	})

	t.Run("serves from cache within the TTL", func(t *testing.T) {
		handler, careTeam, _, clock := setup(t)

		_, err := handler.Handle(ctx, ListPatientsQuery{ClinicianID: doctorID})
		require.NoError(t, err)

		clock.Advance(4 * time.Minute)
		cached, err := handler.Handle(ctx, ListPatientsQuery{ClinicianID: doctorID})
		require.NoError(t, err)
		require.Len(t, cached.Patients, 1)
		assert.Equal(t, 210, cached.Patients[0].WeeklyTotalMinutes)
		require.NotNil(t, cached.Patients[0].LastEntryDate)
		assert.Equal(t, today, *cached.Patients[0].LastEntryDate)
		careTeam.AssertNumberOfCalls(t, "ListPatients", 1)

		clock.Advance(2 * time.Minute)
		_, err = handler.Handle(ctx, ListPatientsQuery{ClinicianID: doctorID})
		require.NoError(t, err)
		careTeam.AssertNumberOfCalls(t, "ListPatients", 2)
	})

	t.Run("requires a clinician", func(t *testing.T) {
		handler, _, _, _ := setup(t)
		_, err := handler.Handle(ctx, ListPatientsQuery{})
		assert.ErrorIs(t, err, domain.ErrEmptyOwner)
	})
}
