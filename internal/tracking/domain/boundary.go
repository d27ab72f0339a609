package domain

import "time"

// DefaultLookbackDays is how far back an entry may be logged.
const DefaultLookbackDays = 5

// BoundaryPolicy decides what "today" is for an owner and which dates they
// may log against. Dates are read from the wall clock in Location, never by
// truncating a UTC timestamp.
type BoundaryPolicy struct {
	Location     *time.Location
	LookbackDays int
}

// NewBoundaryPolicy creates a policy. A nil location means UTC and a
// non-positive lookback means DefaultLookbackDays.
func NewBoundaryPolicy(loc *time.Location, lookbackDays int) BoundaryPolicy {
	if loc == nil {
		loc = time.UTC
	}
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return BoundaryPolicy{Location: loc, LookbackDays: lookbackDays}
}

// Today returns the wall-clock date of now in the policy's location.
func (p BoundaryPolicy) Today(now time.Time) LocalDate {
	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}
	return LocalDateOf(now.In(loc))
}

// Earliest returns the oldest loggable date relative to today.
func (p BoundaryPolicy) Earliest(today LocalDate) LocalDate {
	lookback := p.LookbackDays
	if lookback <= 0 {
		lookback = DefaultLookbackDays
	}
	return today.AddDays(-lookback)
}

// CheckLoggable returns an *OutOfRangeError unless
// today-lookback <= date <= today.
func (p BoundaryPolicy) CheckLoggable(date, today LocalDate) error {
	earliest := p.Earliest(today)
	switch {
	case date.After(today):
		return &OutOfRangeError{Bound: BoundFuture, Date: date, Today: today, Earliest: earliest}
	case date.Before(earliest):
		return &OutOfRangeError{Bound: BoundTooOld, Date: date, Today: today, Earliest: earliest}
	}
	return nil
}

// IsLoggable reports whether CheckLoggable accepts date.
func (p BoundaryPolicy) IsLoggable(date, today LocalDate) bool {
	return p.CheckLoggable(date, today) == nil
}
