package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/google/uuid"
)

// SQLiteLogEntryRepository implements domain.LogEntryRepository on SQLite.
// Ids, dates and timestamps are stored as text.
type SQLiteLogEntryRepository struct {
	conn database.Connection
}

// NewSQLiteLogEntryRepository creates the repository.
func NewSQLiteLogEntryRepository(conn database.Connection) *SQLiteLogEntryRepository {
	return &SQLiteLogEntryRepository{conn: conn}
}

func (r *SQLiteLogEntryRepository) Create(ctx context.Context, entry *domain.LogEntry) error {
	const query = `
		INSERT INTO log_entries (id, owner_id, entry_date, duration_minutes, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, query,
		entry.ID().String(),
		entry.OwnerID().String(),
		entry.Date().String(),
		entry.DurationMinutes(),
		entry.Note(),
		formatSQLiteTime(entry.CreatedAt()),
	)
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

func (r *SQLiteLogEntryRepository) ListByOwnerAndRange(ctx context.Context, ownerID uuid.UUID, from, to domain.LocalDate) ([]*domain.LogEntry, error) {
	const query = `
		SELECT id, owner_id, entry_date, duration_minutes, note, created_at
		FROM log_entries
		WHERE owner_id = ? AND entry_date BETWEEN ? AND ?
		ORDER BY entry_date, created_at, id
	`
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, query, ownerID.String(), from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("query log entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.LogEntry, 0)
	for rows.Next() {
		var id, owner, date, note, createdAt string
		var minutes int
		if err := rows.Scan(&id, &owner, &date, &minutes, &note, &createdAt); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		row, err := sqliteLogEntryRow(id, owner, date, minutes, note, createdAt)
		if err != nil {
			return nil, err
		}
		entry, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate log entries: %w", err)
	}
	return entries, nil
}

func (r *SQLiteLogEntryRepository) CountByOwnerAndDate(ctx context.Context, ownerID uuid.UUID, date domain.LocalDate) (int, error) {
	const query = `SELECT COUNT(*) FROM log_entries WHERE owner_id = ? AND entry_date = ?`

	var count int
	if err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, query, ownerID.String(), date.String()).Scan(&count); err != nil {
		return 0, fmt.Errorf("count log entries: %w", err)
	}
	return count, nil
}

func sqliteLogEntryRow(id, owner, date string, minutes int, note, createdAt string) (logEntryRow, error) {
	const record = "LogEntry"

	parsedID, err := parseUUID(record, "id", id)
	if err != nil {
		return logEntryRow{}, err
	}
	parsedOwner, err := parseUUID(record, "owner_id", owner)
	if err != nil {
		return logEntryRow{}, err
	}
	created, err := parseSQLiteTime(record, "created_at", createdAt)
	if err != nil {
		return logEntryRow{}, err
	}
	return logEntryRow{
		id:              parsedID,
		ownerID:         parsedOwner,
		date:            date,
		durationMinutes: minutes,
		note:            note,
		createdAt:       created,
	}, nil
}
