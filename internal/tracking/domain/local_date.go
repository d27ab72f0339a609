package domain

import (
	"fmt"
	"time"
)

// DateLayout is the canonical text form of a LocalDate.
const DateLayout = "2006-01-02"

// LocalDate is a calendar day with no time-of-day or zone. It is the logical
// day a session counts toward, taken from the owner's wall clock.
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewLocalDate builds a date, normalizing overflow the way time.Date does
// (e.g. June 31 becomes July 1).
func NewLocalDate(year int, month time.Month, day int) LocalDate {
	return LocalDateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// LocalDateOf returns the wall-clock date of t in t's own location.
// Convert with t.In(loc) first to read the date in another zone.
func LocalDateOf(t time.Time) LocalDate {
	y, m, d := t.Date()
	return LocalDate{Year: y, Month: m, Day: d}
}

// ParseLocalDate parses a YYYY-MM-DD string.
func ParseLocalDate(s string) (LocalDate, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return LocalDate{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return LocalDateOf(t), nil
}

// civil anchors the date at UTC midnight. UTC has no DST transitions, so
// day arithmetic on it is exact.
func (d LocalDate) civil() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days later (earlier when n is negative).
func (d LocalDate) AddDays(n int) LocalDate {
	return LocalDateOf(d.civil().AddDate(0, 0, n))
}

// Weekday returns the day of the week, Sunday = 0.
func (d LocalDate) Weekday() time.Weekday {
	return d.civil().Weekday()
}

// DaysSince returns the number of calendar days from other to d.
func (d LocalDate) DaysSince(other LocalDate) int {
	return int(d.civil().Sub(other.civil()).Hours() / 24)
}

// Compare returns -1, 0 or +1.
func (d LocalDate) Compare(other LocalDate) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

func (d LocalDate) Before(other LocalDate) bool { return d.Compare(other) < 0 }
func (d LocalDate) After(other LocalDate) bool  { return d.Compare(other) > 0 }
func (d LocalDate) Equal(other LocalDate) bool  { return d == other }

// IsZero reports whether d is the zero value.
func (d LocalDate) IsZero() bool {
	return d == LocalDate{}
}

// In returns midnight of d in loc.
func (d LocalDate) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// FirstOfMonth returns the first day of d's month.
func (d LocalDate) FirstOfMonth() LocalDate {
	return LocalDate{Year: d.Year, Month: d.Month, Day: 1}
}

func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalText implements encoding.TextMarshaler.
func (d LocalDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *LocalDate) UnmarshalText(text []byte) error {
	parsed, err := ParseLocalDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
