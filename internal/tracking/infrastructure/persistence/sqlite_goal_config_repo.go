package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/google/uuid"
)

// SQLiteGoalConfigRepository implements domain.GoalConfigRepository on SQLite.
type SQLiteGoalConfigRepository struct {
	conn database.Connection
}

// NewSQLiteGoalConfigRepository creates the repository.
func NewSQLiteGoalConfigRepository(conn database.Connection) *SQLiteGoalConfigRepository {
	return &SQLiteGoalConfigRepository{conn: conn}
}

func (r *SQLiteGoalConfigRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.GoalConfig, error) {
	const query = `
		SELECT id, owner_id, daily_goal_minutes, weekly_goal_minutes, set_by_doctor_id,
		       created_at, updated_at, version
		FROM goal_configs
		WHERE owner_id = ?
	`
	var (
		id, owner, createdAt, updatedAt string
		setBy                           sql.NullString
		row                             goalConfigRow
	)
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, query, ownerID.String()).Scan(
		&id, &owner, &row.daily, &row.weekly, &setBy, &createdAt, &updatedAt, &row.version,
	)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query goal config: %w", err)
	}

	const record = "GoalConfig"
	if row.id, err = parseUUID(record, "id", id); err != nil {
		return nil, err
	}
	if row.ownerID, err = parseUUID(record, "owner_id", owner); err != nil {
		return nil, err
	}
	if setBy.Valid {
		doctorID, err := parseUUID(record, "set_by_doctor_id", setBy.String)
		if err != nil {
			return nil, err
		}
		row.setBy = &doctorID
	}
	if row.createdAt, err = parseSQLiteTime(record, "created_at", createdAt); err != nil {
		return nil, err
	}
	if row.updatedAt, err = parseSQLiteTime(record, "updated_at", updatedAt); err != nil {
		return nil, err
	}
	return row.toDomain()
}

func (r *SQLiteGoalConfigRepository) Save(ctx context.Context, goal *domain.GoalConfig) error {
	const query = `
		INSERT INTO goal_configs (
			id, owner_id, daily_goal_minutes, weekly_goal_minutes, set_by_doctor_id,
			created_at, updated_at, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT (owner_id) DO UPDATE SET
			daily_goal_minutes = excluded.daily_goal_minutes,
			weekly_goal_minutes = excluded.weekly_goal_minutes,
			set_by_doctor_id = excluded.set_by_doctor_id,
			updated_at = excluded.updated_at,
			version = goal_configs.version + 1
	`
	var setBy sql.NullString
	if doctorID := goal.SetByDoctorID(); doctorID != nil {
		setBy = sql.NullString{String: doctorID.String(), Valid: true}
	}

	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, query,
		goal.ID().String(),
		goal.OwnerID().String(),
		goal.DailyGoalMinutes(),
		goal.WeeklyGoalMinutes(),
		setBy,
		formatSQLiteTime(goal.CreatedAt()),
		formatSQLiteTime(goal.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("upsert goal config: %w", err)
	}
	return nil
}

func (r *SQLiteGoalConfigRepository) CreateIfAbsent(ctx context.Context, goal *domain.GoalConfig) (bool, error) {
	const query = `
		INSERT INTO goal_configs (
			id, owner_id, daily_goal_minutes, weekly_goal_minutes, set_by_doctor_id,
			created_at, updated_at, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT (owner_id) DO NOTHING
	`
	var setBy sql.NullString
	if doctorID := goal.SetByDoctorID(); doctorID != nil {
		setBy = sql.NullString{String: doctorID.String(), Valid: true}
	}

	res, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, query,
		goal.ID().String(),
		goal.OwnerID().String(),
		goal.DailyGoalMinutes(),
		goal.WeeklyGoalMinutes(),
		setBy,
		formatSQLiteTime(goal.CreatedAt()),
		formatSQLiteTime(goal.UpdatedAt()),
	)
	if err != nil {
		return false, fmt.Errorf("insert goal config: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert goal config: %w", err)
	}
	return affected > 0, nil
}
