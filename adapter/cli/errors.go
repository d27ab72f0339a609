package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
)

// UserMessage turns an error into a line suitable for the terminal.
func UserMessage(err error) string {
	var rangeErr *domain.OutOfRangeError
	var goalErr *domain.InvalidGoalError
	var malformedErr *domain.MalformedRecordError

	switch {
	case errors.As(err, &rangeErr) && rangeErr.Bound == domain.BoundFuture:
		return fmt.Sprintf("Cannot log %s: that day has not happened yet.", rangeErr.Date)
	case errors.As(err, &rangeErr):
		return fmt.Sprintf("Cannot log %s: entries can go back to %s at the earliest.", rangeErr.Date, rangeErr.Earliest)
	case errors.Is(err, domain.ErrDurationOutOfRange):
		return fmt.Sprintf("A session must last between %d and %d minutes.", domain.MinDurationMinutes, domain.MaxDurationMinutes)
	case errors.Is(err, domain.ErrNoteTooLong):
		return fmt.Sprintf("Notes are limited to %d characters.", domain.MaxNoteLength)
	case errors.Is(err, domain.ErrDailyEntryLimit):
		return fmt.Sprintf("You already logged %d sessions on that day.", domain.MaxEntriesPerDay)
	case errors.Is(err, domain.ErrGoalOutOfBounds):
		return fmt.Sprintf("Daily goals must be %d-%d minutes and weekly goals %d-%d minutes.",
			domain.MinDailyGoalMinutes, domain.MaxDailyGoalMinutes,
			domain.MinWeeklyGoalMinutes, domain.MaxWeeklyGoalMinutes)
	case errors.Is(err, domain.ErrNotAuthorized):
		return "You are not linked to this patient."
	case errors.Is(err, domain.ErrSelfLink):
		return "You cannot add yourself as a patient."
	case errors.As(err, &goalErr):
		return "No valid goal is configured; set one with 'therapytrack goal set'."
	case errors.As(err, &malformedErr):
		return fmt.Sprintf("Stored data could not be read (%s). Please report this.", malformedErr.Record)
	default:
		return err.Error()
	}
}

// errNotConfigured is returned when a command runs without a wired app.
var errNotConfigured = errors.New("therapytrack is not initialized; check DATABASE_URL or SQLITE_PATH")
