package persistence

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/google/uuid"
)

// sqliteTimeLayout is fixed width so stored timestamps sort as text.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

func formatSQLiteTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseSQLiteTime(record, field, s string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s)
	}
	if err != nil {
		return time.Time{}, &domain.MalformedRecordError{Record: record, Field: field, Reason: fmt.Sprintf("has value %q", s), Err: err}
	}
	return t.UTC(), nil
}

func parseUUID(record, field, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, &domain.MalformedRecordError{Record: record, Field: field, Reason: fmt.Sprintf("has value %q", s), Err: err}
	}
	return id, nil
}

func parseDate(record, field, s string) (domain.LocalDate, error) {
	d, err := domain.ParseLocalDate(s)
	if err != nil {
		return domain.LocalDate{}, &domain.MalformedRecordError{Record: record, Field: field, Reason: fmt.Sprintf("has value %q", s), Err: err}
	}
	return d, nil
}

// logEntryRow is a log_entries row after driver-specific decoding of ids and
// timestamps. The date is still raw text.
type logEntryRow struct {
	id              uuid.UUID
	ownerID         uuid.UUID
	date            string
	durationMinutes int
	note            string
	createdAt       time.Time
}

func (r logEntryRow) toDomain() (*domain.LogEntry, error) {
	date, err := parseDate("LogEntry", "entry_date", r.date)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateLogEntry(r.id, r.ownerID, date, r.durationMinutes, r.note, r.createdAt)
}

type goalConfigRow struct {
	id        uuid.UUID
	ownerID   uuid.UUID
	daily     int
	weekly    int
	setBy     *uuid.UUID
	createdAt time.Time
	updatedAt time.Time
	version   int
}

func (r goalConfigRow) toDomain() (*domain.GoalConfig, error) {
	return domain.RehydrateGoalConfig(r.id, r.ownerID, r.daily, r.weekly, r.setBy, r.createdAt, r.updatedAt, r.version)
}

type patientRow struct {
	patientID uuid.UUID
	linkedAt  time.Time
	daily     int
	weekly    int
	lastEntry *string
}

func (r patientRow) toDomain() (domain.PatientSummary, error) {
	summary := domain.PatientSummary{
		PatientID:         r.patientID,
		LinkedAt:          r.linkedAt,
		DailyGoalMinutes:  r.daily,
		WeeklyGoalMinutes: r.weekly,
	}
	if r.lastEntry != nil {
		last, err := parseDate("CareLink", "last_entry_date", *r.lastEntry)
		if err != nil {
			return domain.PatientSummary{}, err
		}
		summary.LastEntryDate = &last
	}
	return summary, nil
}
