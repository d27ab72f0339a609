package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	sharedDomain "github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	MinDurationMinutes = 30
	MaxDurationMinutes = 1440
	MaxNoteLength      = 1000
	MaxEntriesPerDay   = 10
)

const aggregateTypeLogEntry = "LogEntry"

// LogEntry is one recorded therapy session. Entries are never edited; a
// correction is a new entry.
type LogEntry struct {
	sharedDomain.BaseAggregateRoot
	ownerID         uuid.UUID
	date            LocalDate
	durationMinutes int
	note            string
}

// NewLogEntry validates and creates an entry. createdAt orders entries that
// share a day.
func NewLogEntry(ownerID uuid.UUID, date LocalDate, durationMinutes int, note string, createdAt time.Time) (*LogEntry, error) {
	if ownerID == uuid.Nil {
		return nil, ErrEmptyOwner
	}
	if date.IsZero() {
		return nil, fmt.Errorf("calendar date is required")
	}
	if err := validateDuration(durationMinutes); err != nil {
		return nil, err
	}
	note = strings.TrimSpace(note)
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return nil, ErrNoteTooLong
	}

	entry := &LogEntry{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRootAt(createdAt),
		ownerID:           ownerID,
		date:              date,
		durationMinutes:   durationMinutes,
		note:              note,
	}

	entry.AddDomainEvent(NewEntryLoggedEvent(entry))

	return entry, nil
}

// RehydrateLogEntry rebuilds an entry from a persisted row. Rows that break
// the entry invariants are reported as MalformedRecordError.
func RehydrateLogEntry(
	id uuid.UUID,
	ownerID uuid.UUID,
	date LocalDate,
	durationMinutes int,
	note string,
	createdAt time.Time,
) (*LogEntry, error) {
	if id == uuid.Nil {
		return nil, malformed(aggregateTypeLogEntry, "id", "is empty", nil)
	}
	if ownerID == uuid.Nil {
		return nil, malformed(aggregateTypeLogEntry, "owner_id", "is empty", nil)
	}
	if date.IsZero() {
		return nil, malformed(aggregateTypeLogEntry, "entry_date", "is empty", nil)
	}
	if err := validateDuration(durationMinutes); err != nil {
		return nil, malformed(aggregateTypeLogEntry, "duration_minutes", fmt.Sprintf("has value %d", durationMinutes), err)
	}
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return nil, malformed(aggregateTypeLogEntry, "note", "is too long", ErrNoteTooLong)
	}

	base := sharedDomain.RehydrateBaseEntity(id, createdAt, createdAt)
	return &LogEntry{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(base, 1),
		ownerID:           ownerID,
		date:              date,
		durationMinutes:   durationMinutes,
		note:              note,
	}, nil
}

func (e *LogEntry) OwnerID() uuid.UUID   { return e.ownerID }
func (e *LogEntry) Date() LocalDate      { return e.date }
func (e *LogEntry) DurationMinutes() int { return e.durationMinutes }
func (e *LogEntry) Note() string         { return e.note }

// HasNote reports whether the entry carries a non-blank note.
func (e *LogEntry) HasNote() bool {
	return strings.TrimSpace(e.note) != ""
}

func validateDuration(minutes int) error {
	if minutes < MinDurationMinutes || minutes > MaxDurationMinutes {
		return ErrDurationOutOfRange
	}
	return nil
}
