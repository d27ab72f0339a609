package progress

import (
	"time"

	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
)

// CalendarDay is one cell of a month view.
type CalendarDay struct {
	Date           domain.LocalDate `json:"date"`
	HasData        bool             `json:"has_data"`
	TotalMinutes   int              `json:"total_minutes"`
	EntryCount     int              `json:"entry_count"`
	HasNotes       bool             `json:"has_notes"`
	Percentage     float64          `json:"percentage"`
	DisplayPercent int              `json:"display_percent"`
	Band           Band             `json:"band"`
	IsToday        bool             `json:"is_today"`
}

// MonthSummary totals a month view.
type MonthSummary struct {
	TotalMinutes   int     `json:"monthly_total_minutes"`
	AverageMinutes float64 `json:"monthly_average_minutes"`
	ActiveDayCount int     `json:"active_day_count"`
	DaysWithData   int     `json:"days_with_data"`
	GoalMetDays    int     `json:"goal_met_days"`
}

// MonthCalendar is a month of days bucketed against the daily goal.
type MonthCalendar struct {
	Year             int           `json:"year"`
	Month            time.Month    `json:"month"`
	DailyGoalMinutes int           `json:"daily_goal_minutes"`
	LeadingBlankDays int           `json:"leading_blank_days"`
	Days             []CalendarDay `json:"days"`
	Summary          MonthSummary  `json:"summary"`
}

// BuildMonth produces one CalendarDay for every day of the month. Aggregates
// outside the month are ignored. The average divides by days that have an
// aggregate, not by the length of the month.
func BuildMonth(year int, month time.Month, aggregates []DailyAggregate, dailyGoal int, today domain.LocalDate) (*MonthCalendar, error) {
	if dailyGoal <= 0 {
		return nil, &domain.InvalidGoalError{GoalMinutes: dailyGoal}
	}

	first := domain.NewLocalDate(year, month, 1)
	daysInMonth := domain.DaysInMonth(first.Year, first.Month)
	index := Index(aggregates)

	cal := &MonthCalendar{
		Year:             first.Year,
		Month:            first.Month,
		DailyGoalMinutes: dailyGoal,
		LeadingBlankDays: int(first.Weekday()),
		Days:             make([]CalendarDay, 0, daysInMonth),
	}

	for i := 0; i < daysInMonth; i++ {
		date := first.AddDays(i)
		agg, hasData := index[date]

		day, err := evaluateDay(date, agg, hasData, dailyGoal)
		if err != nil {
			return nil, err
		}
		day.IsToday = date.Equal(today)
		cal.Days = append(cal.Days, day)

		if !hasData {
			continue
		}
		cal.Summary.DaysWithData++
		cal.Summary.TotalMinutes += agg.TotalMinutes
		if agg.TotalMinutes > 0 {
			cal.Summary.ActiveDayCount++
		}
		if day.Percentage >= 100 {
			cal.Summary.GoalMetDays++
		}
	}

	if cal.Summary.DaysWithData > 0 {
		cal.Summary.AverageMinutes = float64(cal.Summary.TotalMinutes) / float64(cal.Summary.DaysWithData)
	}

	return cal, nil
}

func evaluateDay(date domain.LocalDate, agg DailyAggregate, hasData bool, dailyGoal int) (CalendarDay, error) {
	day := CalendarDay{Date: date, HasData: hasData}
	if hasData {
		day.TotalMinutes = agg.TotalMinutes
		day.EntryCount = agg.EntryCount
		day.HasNotes = agg.HasNotes
	}

	p, err := Percentage(day.TotalMinutes, dailyGoal)
	if err != nil {
		return CalendarDay{}, err
	}
	day.Percentage = p
	day.DisplayPercent = DisplayPercent(p)
	day.Band = BandFor(p, hasData)
	return day, nil
}
