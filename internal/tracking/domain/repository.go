package domain

import (
	"context"

	"github.com/google/uuid"
)

// LogEntryRepository persists session entries.
type LogEntryRepository interface {
	// Create stores a new entry.
	Create(ctx context.Context, entry *LogEntry) error

	// ListByOwnerAndRange returns the owner's entries with from <= date <= to,
	// ordered by date then creation time.
	ListByOwnerAndRange(ctx context.Context, ownerID uuid.UUID, from, to LocalDate) ([]*LogEntry, error)

	// CountByOwnerAndDate counts the owner's entries on one day. Inside a
	// unit of work it also holds off other writers counting the same owner
	// and day until the transaction ends.
	CountByOwnerAndDate(ctx context.Context, ownerID uuid.UUID, date LocalDate) (int, error)
}

// GoalConfigRepository persists goal configurations.
type GoalConfigRepository interface {
	// GetByOwner returns nil, nil when the owner has no configuration yet.
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*GoalConfig, error)

	// Save inserts or updates the owner's configuration.
	Save(ctx context.Context, goal *GoalConfig) error

	// CreateIfAbsent inserts goal unless the owner already has a
	// configuration. It reports whether the row was inserted.
	CreateIfAbsent(ctx context.Context, goal *GoalConfig) (bool, error)
}

// CareTeamRepository persists clinician to patient links.
type CareTeamRepository interface {
	// Link stores a link. Linking twice is not an error.
	Link(ctx context.Context, link *CareLink) error

	// IsLinked reports whether the clinician may see the patient.
	IsLinked(ctx context.Context, doctorID, patientID uuid.UUID) (bool, error)

	// ListPatients returns the clinician's patients ordered by link time.
	ListPatients(ctx context.Context, doctorID uuid.UUID) ([]PatientSummary, error)
}
