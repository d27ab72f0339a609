package progress

import (
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, time.June, 10, 8, 0, 0, 0, time.UTC)

func date(month time.Month, day int) domain.LocalDate {
	return domain.NewLocalDate(2024, month, day)
}

func entry(t *testing.T, owner uuid.UUID, d domain.LocalDate, minutes int, note string, createdAt time.Time) *domain.LogEntry {
	t.Helper()
	e, err := domain.NewLogEntry(owner, d, minutes, note, createdAt)
	require.NoError(t, err)
	return e
}

func agg(d domain.LocalDate, minutes int) DailyAggregate {
	return DailyAggregate{Date: d, TotalMinutes: minutes, EntryCount: 1}
}

func TestNormalize_EndToEnd(t *testing.T) {
	owner := uuid.New()
	day := date(time.June, 10)
	entries := []*domain.LogEntry{
		entry(t, owner, day, 150, "", base.Add(2*time.Hour)),
		entry(t, owner, day, 50, "", base),
		entry(t, owner, day, 70, "felt good", base.Add(time.Hour)),
	}

	aggregates := Normalize(entries)
	require.Len(t, aggregates, 1)

	a := aggregates[0]
	assert.Equal(t, day, a.Date)
	assert.Equal(t, 270, a.TotalMinutes)
	assert.Equal(t, 3, a.EntryCount)
	assert.True(t, a.HasNotes)
	require.Len(t, a.Entries, 3)
	assert.Equal(t, 50, a.Entries[0].DurationMinutes())
	assert.Equal(t, 70, a.Entries[1].DurationMinutes())
	assert.Equal(t, 150, a.Entries[2].DurationMinutes())

	p, err := Percentage(a.TotalMinutes, 240)
	require.NoError(t, err)
	assert.Equal(t, 112.5, p)
	assert.Equal(t, 113, DisplayPercent(p))
	assert.Equal(t, BandExceeded, BandFor(p, true))
}

func TestNormalize_GroupsAndOrders(t *testing.T) {
	owner := uuid.New()
	entries := []*domain.LogEntry{
		entry(t, owner, date(time.June, 9), 30, "  ", base),
		entry(t, owner, date(time.June, 7), 60, "", base),
		entry(t, owner, date(time.June, 9), 45, "", base),
	}

	aggregates := Normalize(entries)
	require.Len(t, aggregates, 2)
	assert.Equal(t, date(time.June, 7), aggregates[0].Date)
	assert.Equal(t, date(time.June, 9), aggregates[1].Date)
	assert.Equal(t, 75, aggregates[1].TotalMinutes)
	assert.Equal(t, 2, aggregates[1].EntryCount)
	assert.False(t, aggregates[1].HasNotes)
}

func TestNormalize_Empty(t *testing.T) {
	aggregates := Normalize(nil)
	assert.NotNil(t, aggregates)
	assert.Empty(t, aggregates)
}

func TestPercentage(t *testing.T) {
	p, err := Percentage(300, 240)
	require.NoError(t, err)
	assert.Equal(t, 125.0, p)
	assert.Equal(t, 1.0, RingFraction(p))

	p, err = Percentage(60, 240)
	require.NoError(t, err)
	assert.Equal(t, 25.0, p)
	assert.Equal(t, 0.25, RingFraction(p))

	for _, goal := range []int{0, -30} {
		_, err := Percentage(60, goal)
		var goalErr *domain.InvalidGoalError
		require.True(t, errors.As(err, &goalErr))
		assert.Equal(t, goal, goalErr.GoalMinutes)
	}
}

func TestDisplayPercent_RoundsHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{0.4, 0},
		{0.5, 1},
		{49.5, 50},
		{99.49, 99},
		{112.5, 113},
		{125, 125},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, DisplayPercent(tc.in), "input %v", tc.in)
	}
}

func TestDisplayPercent_ExactHalvesFromPercentage(t *testing.T) {
	tests := []struct {
		minutes, goal int
		want          int
	}{
		{41, 40, 103},
		{51, 40, 128},
		{1, 200, 1},
		{3, 8, 38},
		{45, 240, 19},
	}
	for _, tc := range tests {
		p, err := Percentage(tc.minutes, tc.goal)
		require.NoError(t, err)
		assert.Equal(t, tc.want, DisplayPercent(p), "%d of %d", tc.minutes, tc.goal)
	}
}

func TestDisplayPercent_MatchesIntegerHalfUp(t *testing.T) {
	for goal := 30; goal <= 720; goal += 5 {
		for minutes := 30; minutes <= 1440; minutes++ {
			p, err := Percentage(minutes, goal)
			require.NoError(t, err)
			want := (200*minutes + goal) / (2 * goal)
			if got := DisplayPercent(p); got != want {
				t.Fatalf("%d of %d: got %d, want %d (p=%v)", minutes, goal, got, want, p)
			}
		}
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		p       float64
		hasData bool
		want    Band
	}{
		{0, false, BandNone},
		{0, true, BandMinimal},
		{100.0 / 240, true, BandMinimal},
		{24.99, true, BandMinimal},
		{25, true, BandLow},
		{49.99, true, BandLow},
		{50, true, BandModerate},
		{74.99, true, BandModerate},
		{75, true, BandStrong},
		{99.99, true, BandStrong},
		{100, true, BandExceeded},
		{250, true, BandExceeded},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, BandFor(tc.p, tc.hasData), "p=%v hasData=%v", tc.p, tc.hasData)
	}
	assert.Len(t, Bands(), 6)
}

func TestBuildMonth(t *testing.T) {
	today := date(time.June, 10)
	aggregates := []DailyAggregate{
		agg(date(time.June, 1), 240),
		agg(date(time.June, 10), 30),
		agg(date(time.June, 15), 120),
		agg(date(time.May, 31), 500),
		agg(date(time.July, 1), 500),
	}

	cal, err := BuildMonth(2024, time.June, aggregates, 240, today)
	require.NoError(t, err)

	require.Len(t, cal.Days, 30)
	assert.Equal(t, 6, cal.LeadingBlankDays) // June 1st 2024 is a Saturday

	assert.Equal(t, BandExceeded, cal.Days[0].Band)
	assert.Equal(t, BandNone, cal.Days[1].Band)
	assert.False(t, cal.Days[1].HasData)
	assert.Equal(t, BandMinimal, cal.Days[9].Band)
	assert.True(t, cal.Days[9].HasData)
	assert.True(t, cal.Days[9].IsToday)
	assert.Equal(t, BandModerate, cal.Days[14].Band)

	todayCount := 0
	for _, d := range cal.Days {
		if d.IsToday {
			todayCount++
		}
	}
	assert.Equal(t, 1, todayCount)

	assert.Equal(t, 390, cal.Summary.TotalMinutes)
	assert.Equal(t, 130.0, cal.Summary.AverageMinutes)
	assert.Equal(t, 3, cal.Summary.ActiveDayCount)
	assert.Equal(t, 3, cal.Summary.DaysWithData)
	assert.Equal(t, 1, cal.Summary.GoalMetDays)
}

func TestBuildMonth_AverageExcludesEmptyDays(t *testing.T) {
	cal, err := BuildMonth(2024, time.June, []DailyAggregate{agg(date(time.June, 12), 120)}, 240, date(time.June, 30))
	require.NoError(t, err)
	assert.Equal(t, 120.0, cal.Summary.AverageMinutes)
}

func TestBuildMonth_OneMinuteIsMinimal(t *testing.T) {
	cal, err := BuildMonth(2024, time.June, []DailyAggregate{agg(date(time.June, 3), 1)}, 240, date(time.June, 30))
	require.NoError(t, err)
	assert.Equal(t, BandMinimal, cal.Days[2].Band)
	assert.Equal(t, BandNone, cal.Days[3].Band)
}

func TestBuildMonth_EmptyAndLengths(t *testing.T) {
	cal, err := BuildMonth(2024, time.February, nil, 240, date(time.June, 10))
	require.NoError(t, err)
	assert.Len(t, cal.Days, 29)
	assert.Equal(t, 0.0, cal.Summary.AverageMinutes)
	for _, d := range cal.Days {
		assert.Equal(t, BandNone, d.Band)
		assert.False(t, d.IsToday)
	}

	cal, err = BuildMonth(2023, time.February, nil, 240, date(time.June, 10))
	require.NoError(t, err)
	assert.Len(t, cal.Days, 28)
}

func TestBuildMonth_InvalidGoal(t *testing.T) {
	_, err := BuildMonth(2024, time.June, nil, 0, date(time.June, 10))
	var goalErr *domain.InvalidGoalError
	assert.True(t, errors.As(err, &goalErr))
}

func TestWeekStart(t *testing.T) {
	wednesday := date(time.June, 12)
	assert.Equal(t, date(time.June, 9), WeekStart(wednesday))
	assert.Equal(t, date(time.June, 9), WeekStart(date(time.June, 9)))
	assert.Equal(t, date(time.June, 9), WeekStart(date(time.June, 15)))
	// Crosses a month boundary.
	assert.Equal(t, date(time.June, 30), WeekStart(domain.NewLocalDate(2024, time.July, 3)))
}

func TestBuildWeek(t *testing.T) {
	wednesday := date(time.June, 12)
	aggregates := []DailyAggregate{
		agg(date(time.June, 9), 240),
		agg(date(time.June, 12), 120),
		agg(date(time.June, 15), 300),
		agg(date(time.June, 16), 999),
	}

	week, err := BuildWeek(wednesday, wednesday, aggregates, Targets{DailyMinutes: 240, WeeklyMinutes: 1680})
	require.NoError(t, err)

	assert.Equal(t, date(time.June, 9), week.WeekStart)
	assert.Equal(t, date(time.June, 15), week.WeekEnd)
	require.Len(t, week.Days, DaysPerWeek)

	todayCount := 0
	for i, d := range week.Days {
		assert.Equal(t, date(time.June, 9).AddDays(i), d.Date)
		if d.IsToday {
			todayCount++
			assert.Equal(t, wednesday, d.Date)
		}
	}
	assert.Equal(t, 1, todayCount)

	assert.Equal(t, BandExceeded, week.Days[0].Band)
	assert.Equal(t, BandModerate, week.Days[3].Band)
	assert.Equal(t, BandNone, week.Days[4].Band)
	assert.Equal(t, 1.0, week.Days[6].RingFraction)

	assert.Equal(t, 660, week.WeeklyTotalMinutes)
	assert.InDelta(t, 39.2857, week.WeeklyPercentage, 0.001)
	assert.Equal(t, 39, week.WeeklyDisplayPercent)
	assert.Equal(t, 2, week.DaysGoalMet)
}

func TestBuildWeek_OverWeeklyGoal(t *testing.T) {
	ref := date(time.June, 10)
	var aggregates []DailyAggregate
	for i := 0; i < DaysPerWeek; i++ {
		aggregates = append(aggregates, agg(WeekStart(ref).AddDays(i), 300))
	}

	week, err := BuildWeek(ref, ref, aggregates, Targets{DailyMinutes: 240, WeeklyMinutes: 1680})
	require.NoError(t, err)
	assert.Equal(t, 2100, week.WeeklyTotalMinutes)
	assert.Equal(t, 125.0, week.WeeklyPercentage)
	assert.Equal(t, 1.0, week.WeeklyRingFraction)
}

func TestBuildWeek_InvalidGoal(t *testing.T) {
	ref := date(time.June, 10)
	_, err := BuildWeek(ref, ref, nil, Targets{DailyMinutes: 240})
	var goalErr *domain.InvalidGoalError
	assert.True(t, errors.As(err, &goalErr))
}

func TestComputeStats(t *testing.T) {
	today := date(time.June, 10)
	aggregates := []DailyAggregate{
		agg(date(time.June, 1), 240),
		agg(date(time.June, 2), 250),
		agg(date(time.June, 3), 260),
		agg(date(time.June, 4), 100),
		agg(date(time.June, 8), 240),
		agg(date(time.June, 9), 300),
		agg(date(time.June, 10), 60),
		agg(date(time.June, 11), 900),
	}

	stats, err := ComputeStats(aggregates, 240, today)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.CurrentStreak)
	assert.Equal(t, 3, stats.LongestStreak)
	assert.Equal(t, 5, stats.GoalMetDays)
	assert.Equal(t, 7, stats.ActiveDays)
	assert.Equal(t, 1450, stats.TotalMinutes)
	require.NotNil(t, stats.BestDay)
	assert.Equal(t, date(time.June, 9), stats.BestDay.Date)
}

func TestComputeStats_CurrentStreakIncludesToday(t *testing.T) {
	today := date(time.June, 10)
	stats, err := ComputeStats([]DailyAggregate{
		agg(date(time.June, 9), 240),
		agg(date(time.June, 10), 240),
	}, 240, today)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CurrentStreak)

	stats, err = ComputeStats([]DailyAggregate{agg(date(time.June, 8), 240)}, 240, today)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.CurrentStreak)
	assert.Equal(t, 1, stats.LongestStreak)
}

func TestComputeStats_Empty(t *testing.T) {
	stats, err := ComputeStats(nil, 240, date(time.June, 10))
	require.NoError(t, err)
	assert.Equal(t, Stats{}, *stats)

	_, err = ComputeStats(nil, 0, date(time.June, 10))
	assert.Error(t, err)
}

func TestTargetsOf(t *testing.T) {
	assert.Equal(t, Targets{DailyMinutes: 240, WeeklyMinutes: 1680}, TargetsOf(nil))

	goal, err := domain.NewDefaultGoalConfig(uuid.New(), time.Now())
	require.NoError(t, err)
	require.NoError(t, goal.Assign(90, 630, nil, time.Now()))
	assert.Equal(t, Targets{DailyMinutes: 90, WeeklyMinutes: 630}, TargetsOf(goal))
}
