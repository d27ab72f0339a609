package progress

import (
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
)

// DaysPerWeek is the length of a week window.
const DaysPerWeek = 7

// WeekDay is one day of a week window.
type WeekDay struct {
	CalendarDay
	RingFraction float64 `json:"ring_fraction"`
}

// WeekWindow is the Sunday to Saturday span around a reference date.
type WeekWindow struct {
	WeekStart            domain.LocalDate `json:"week_start"`
	WeekEnd              domain.LocalDate `json:"week_end"`
	DailyGoalMinutes     int              `json:"daily_goal_minutes"`
	WeeklyGoalMinutes    int              `json:"weekly_goal_minutes"`
	Days                 []WeekDay        `json:"days"`
	WeeklyTotalMinutes   int              `json:"weekly_total_minutes"`
	WeeklyPercentage     float64          `json:"weekly_percentage"`
	WeeklyDisplayPercent int              `json:"weekly_display_percent"`
	WeeklyRingFraction   float64          `json:"weekly_ring_fraction"`
	DaysGoalMet          int              `json:"days_goal_met"`
}

// WeekStart returns the Sunday on or before ref.
func WeekStart(ref domain.LocalDate) domain.LocalDate {
	return ref.AddDays(-int(ref.Weekday()))
}

// BuildWeek evaluates the week containing reference. Days are banded
// against the daily goal and the total against the weekly goal. A day is
// flagged IsToday by date equality with today.
func BuildWeek(reference, today domain.LocalDate, aggregates []DailyAggregate, goal Targets) (*WeekWindow, error) {
	if goal.DailyMinutes <= 0 {
		return nil, &domain.InvalidGoalError{GoalMinutes: goal.DailyMinutes}
	}
	if goal.WeeklyMinutes <= 0 {
		return nil, &domain.InvalidGoalError{GoalMinutes: goal.WeeklyMinutes}
	}

	start := WeekStart(reference)
	index := Index(aggregates)

	window := &WeekWindow{
		WeekStart:         start,
		WeekEnd:           start.AddDays(DaysPerWeek - 1),
		DailyGoalMinutes:  goal.DailyMinutes,
		WeeklyGoalMinutes: goal.WeeklyMinutes,
		Days:              make([]WeekDay, 0, DaysPerWeek),
	}

	for i := 0; i < DaysPerWeek; i++ {
		date := start.AddDays(i)
		agg, hasData := index[date]

		day, err := evaluateDay(date, agg, hasData, goal.DailyMinutes)
		if err != nil {
			return nil, err
		}
		day.IsToday = date.Equal(today)

		window.Days = append(window.Days, WeekDay{CalendarDay: day, RingFraction: RingFraction(day.Percentage)})
		window.WeeklyTotalMinutes += day.TotalMinutes
		if day.Percentage >= 100 {
			window.DaysGoalMet++
		}
	}

	p, err := Percentage(window.WeeklyTotalMinutes, goal.WeeklyMinutes)
	if err != nil {
		return nil, err
	}
	window.WeeklyPercentage = p
	window.WeeklyDisplayPercent = DisplayPercent(p)
	window.WeeklyRingFraction = RingFraction(p)

	return window, nil
}
