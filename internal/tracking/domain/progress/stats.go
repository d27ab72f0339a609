package progress

import (
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
)

// BestDay is the day with the most minutes.
type BestDay struct {
	Date         domain.LocalDate `json:"date"`
	TotalMinutes int              `json:"total_minutes"`
}

// Stats summarizes adherence over a set of days.
type Stats struct {
	CurrentStreak int      `json:"current_streak"`
	LongestStreak int      `json:"longest_streak"`
	GoalMetDays   int      `json:"goal_met_days"`
	ActiveDays    int      `json:"active_days"`
	TotalMinutes  int      `json:"total_minutes"`
	BestDay       *BestDay `json:"best_day,omitempty"`
}

// ComputeStats derives streaks and totals. A streak is a run of
// consecutive days on which the daily goal was met. The current streak
// ends today, or yesterday while today's goal is still open. Days after
// today are ignored.
func ComputeStats(aggregates []DailyAggregate, dailyGoal int, today domain.LocalDate) (*Stats, error) {
	if dailyGoal <= 0 {
		return nil, &domain.InvalidGoalError{GoalMinutes: dailyGoal}
	}

	days := make([]DailyAggregate, 0, len(aggregates))
	for _, agg := range sortedByDate(Index(aggregates)) {
		if !agg.Date.After(today) {
			days = append(days, agg)
		}
	}

	stats := &Stats{}
	met := make(map[domain.LocalDate]bool, len(days))

	run := 0
	var prev domain.LocalDate
	for _, agg := range days {
		stats.TotalMinutes += agg.TotalMinutes
		if agg.TotalMinutes > 0 {
			stats.ActiveDays++
		}
		if stats.BestDay == nil || agg.TotalMinutes > stats.BestDay.TotalMinutes {
			stats.BestDay = &BestDay{Date: agg.Date, TotalMinutes: agg.TotalMinutes}
		}

		if agg.TotalMinutes < dailyGoal {
			run = 0
			continue
		}
		met[agg.Date] = true
		stats.GoalMetDays++
		if run > 0 && agg.Date.DaysSince(prev) == 1 {
			run++
		} else {
			run = 1
		}
		prev = agg.Date
		if run > stats.LongestStreak {
			stats.LongestStreak = run
		}
	}

	cursor := today
	if !met[cursor] {
		cursor = cursor.AddDays(-1)
	}
	for met[cursor] {
		stats.CurrentStreak++
		cursor = cursor.AddDays(-1)
	}

	return stats, nil
}

func sortedByDate(index map[domain.LocalDate]DailyAggregate) []DailyAggregate {
	days := make([]DailyAggregate, 0, len(index))
	for _, agg := range index {
		days = append(days, agg)
	}
	sortAggregates(days)
	return days
}
