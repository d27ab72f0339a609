package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyOwner         = errors.New("owner ID cannot be empty")
	ErrDurationOutOfRange = fmt.Errorf("duration must be between %d and %d minutes", MinDurationMinutes, MaxDurationMinutes)
	ErrNoteTooLong        = fmt.Errorf("note cannot exceed %d characters", MaxNoteLength)
	ErrDailyEntryLimit    = fmt.Errorf("at most %d entries can be logged per day", MaxEntriesPerDay)
	ErrGoalOutOfBounds    = errors.New("goal is outside the allowed range")
	ErrNotAuthorized      = errors.New("not authorized for this owner")
)

// InvalidGoalError is returned when progress is evaluated against a goal
// that is zero or negative.
type InvalidGoalError struct {
	GoalMinutes int
}

func (e *InvalidGoalError) Error() string {
	return fmt.Sprintf("invalid goal of %d minutes: goal must be positive", e.GoalMinutes)
}

// Bound names which edge of the loggable window a date fell outside of.
type Bound string

const (
	BoundFuture Bound = "future"
	BoundTooOld Bound = "tooOld"
)

// OutOfRangeError is returned when a date cannot be logged.
type OutOfRangeError struct {
	Bound    Bound
	Date     LocalDate
	Today    LocalDate
	Earliest LocalDate
}

func (e *OutOfRangeError) Error() string {
	switch e.Bound {
	case BoundFuture:
		return fmt.Sprintf("cannot log %s: date is in the future (today is %s)", e.Date, e.Today)
	default:
		return fmt.Sprintf("cannot log %s: date is before %s", e.Date, e.Earliest)
	}
}

// MalformedRecordError is returned when a persisted row does not parse into
// a valid record.
type MalformedRecordError struct {
	Record string
	Field  string
	Reason string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s record: %s %s: %v", e.Record, e.Field, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed %s record: %s %s", e.Record, e.Field, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

func malformed(record, field, reason string, err error) *MalformedRecordError {
	return &MalformedRecordError{Record: record, Field: field, Reason: reason, Err: err}
}
