package progress

import (
	"math"

	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
)

// Percentage returns minutes as a percentage of goal. The value is neither
// rounded nor clamped; 300 of 240 is 125. The multiplication happens first
// so that exact halves such as 41 of 40 stay exactly 102.5.
func Percentage(minutes, goal int) (float64, error) {
	if goal <= 0 {
		return 0, &domain.InvalidGoalError{GoalMinutes: goal}
	}
	return float64(minutes*100) / float64(goal), nil
}

// DisplayPercent rounds a percentage half-up for display.
func DisplayPercent(p float64) int {
	return int(math.Floor(p + 0.5))
}

// RingFraction is the share of a progress ring to fill, clamped to [0, 1].
// The text label should still show the true percentage.
func RingFraction(p float64) float64 {
	switch {
	case math.IsNaN(p) || p <= 0:
		return 0
	case p >= 100:
		return 1
	default:
		return p / 100
	}
}

// Targets are the goals a view is evaluated against.
type Targets struct {
	DailyMinutes  int `json:"daily_minutes"`
	WeeklyMinutes int `json:"weekly_minutes"`
}

// TargetsOf reads the targets from a goal configuration. A nil
// configuration yields the default targets.
func TargetsOf(goal *domain.GoalConfig) Targets {
	if goal == nil {
		return Targets{
			DailyMinutes:  domain.DefaultDailyGoalMinutes,
			WeeklyMinutes: domain.DefaultWeeklyGoalMinutes,
		}
	}
	return Targets{
		DailyMinutes:  goal.DailyGoalMinutes(),
		WeeklyMinutes: goal.WeeklyGoalMinutes(),
	}
}
