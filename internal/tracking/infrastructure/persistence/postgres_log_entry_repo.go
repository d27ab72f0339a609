package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/google/uuid"
)

// PostgresLogEntryRepository implements domain.LogEntryRepository on PostgreSQL.
type PostgresLogEntryRepository struct {
	conn database.Connection
}

// NewPostgresLogEntryRepository creates the repository.
func NewPostgresLogEntryRepository(conn database.Connection) *PostgresLogEntryRepository {
	return &PostgresLogEntryRepository{conn: conn}
}

func (r *PostgresLogEntryRepository) Create(ctx context.Context, entry *domain.LogEntry) error {
	const query = `
		INSERT INTO log_entries (id, owner_id, entry_date, duration_minutes, note, created_at)
		VALUES ($1, $2, $3::date, $4, $5, $6)
	`
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, query,
		entry.ID(),
		entry.OwnerID(),
		entry.Date().String(),
		entry.DurationMinutes(),
		entry.Note(),
		entry.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}
	return nil
}

func (r *PostgresLogEntryRepository) ListByOwnerAndRange(ctx context.Context, ownerID uuid.UUID, from, to domain.LocalDate) ([]*domain.LogEntry, error) {
	const query = `
		SELECT id, owner_id, to_char(entry_date, 'YYYY-MM-DD'), duration_minutes, note, created_at
		FROM log_entries
		WHERE owner_id = $1 AND entry_date BETWEEN $2::date AND $3::date
		ORDER BY entry_date, created_at, id
	`
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, query, ownerID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("query log entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.LogEntry, 0)
	for rows.Next() {
		var row logEntryRow
		if err := rows.Scan(&row.id, &row.ownerID, &row.date, &row.durationMinutes, &row.note, &row.createdAt); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
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

func (r *PostgresLogEntryRepository) CountByOwnerAndDate(ctx context.Context, ownerID uuid.UUID, date domain.LocalDate) (int, error) {
	const (
		lock  = `SELECT pg_advisory_xact_lock(hashtext($1))`
		query = `SELECT COUNT(*) FROM log_entries WHERE owner_id = $1 AND entry_date = $2::date`
	)

	exec := database.ExecutorFromContext(ctx, r.conn)
	// Held until commit, so a concurrent writer counts after our insert.
	if _, err := exec.Exec(ctx, lock, ownerID.String()+"/"+date.String()); err != nil {
		return 0, fmt.Errorf("lock owner day: %w", err)
	}

	var count int
	if err := exec.QueryRow(ctx, query, ownerID, date.String()).Scan(&count); err != nil {
		return 0, fmt.Errorf("count log entries: %w", err)
	}
	return count, nil
}
