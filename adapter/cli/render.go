package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain/progress"
)

const barWidth = 20

var bandSymbols = map[progress.Band]string{
	progress.BandExceeded: "##",
	progress.BandStrong:   "#+",
	progress.BandModerate: "++",
	progress.BandLow:      "+.",
	progress.BandMinimal:  "..",
	progress.BandNone:     "  ",
}

// bar draws a fraction in [0, 1] as a fixed-width progress bar.
func bar(fraction float64) string {
	filled := int(fraction*barWidth + 0.5)
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled) + "]"
}

func formatMinutes(minutes int) string {
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// RenderMonth prints a Sunday-first month grid with one band symbol per day.
func RenderMonth(w io.Writer, cal *progress.MonthCalendar) {
	fmt.Fprintf(w, "\n  %s %d  (daily goal %s)\n", cal.Month, cal.Year, formatMinutes(cal.DailyGoalMinutes))
	fmt.Fprintln(w, "  Su    Mo    Tu    We    Th    Fr    Sa")

	col := cal.LeadingBlankDays
	line := strings.Repeat(" ", 6*col)
	for _, day := range cal.Days {
		marker := " "
		if day.IsToday {
			marker = "*"
		}
		line += fmt.Sprintf("%2d%s%s ", day.Date.Day, marker, bandSymbols[day.Band])
		col++
		if col == 7 {
			fmt.Fprintln(w, "  "+strings.TrimRight(line, " "))
			line, col = "", 0
		}
	}
	if line != "" {
		fmt.Fprintln(w, "  "+strings.TrimRight(line, " "))
	}

	s := cal.Summary
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Total: %s | Active days: %d | Goal met: %d | Avg per logged day: %.0f min\n",
		formatMinutes(s.TotalMinutes), s.ActiveDayCount, s.GoalMetDays, s.AverageMinutes)
	fmt.Fprintln(w, "  Legend: ## exceeded  #+ strong  ++ moderate  +. low  .. minimal")
}

// RenderWeek prints one line per day and the weekly total.
func RenderWeek(w io.Writer, week *progress.WeekWindow) {
	fmt.Fprintf(w, "\n  Week of %s\n", week.WeekStart)
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, day := range week.Days {
		marker := " "
		if day.IsToday {
			marker = "*"
		}
		fmt.Fprintf(w, " %s%s %s %s %4d%%  %s\n",
			marker, day.Date.Weekday().String()[:3], day.Date,
			bar(day.RingFraction), day.DisplayPercent, formatMinutes(day.TotalMinutes))
	}
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "  Week: %s of %s  %s %d%%  (goal met on %d days)\n",
		formatMinutes(week.WeeklyTotalMinutes), formatMinutes(week.WeeklyGoalMinutes),
		bar(week.WeeklyRingFraction), week.WeeklyDisplayPercent, week.DaysGoalMet)
}
