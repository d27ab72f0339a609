package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/google/uuid"
)

// PostgresGoalConfigRepository implements domain.GoalConfigRepository on PostgreSQL.
type PostgresGoalConfigRepository struct {
	conn database.Connection
}

// NewPostgresGoalConfigRepository creates the repository.
func NewPostgresGoalConfigRepository(conn database.Connection) *PostgresGoalConfigRepository {
	return &PostgresGoalConfigRepository{conn: conn}
}

func (r *PostgresGoalConfigRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.GoalConfig, error) {
	const query = `
		SELECT id, owner_id, daily_goal_minutes, weekly_goal_minutes, set_by_doctor_id,
		       created_at, updated_at, version
		FROM goal_configs
		WHERE owner_id = $1
	`
	var row goalConfigRow
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, query, ownerID).Scan(
		&row.id, &row.ownerID, &row.daily, &row.weekly, &row.setBy,
		&row.createdAt, &row.updatedAt, &row.version,
	)
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query goal config: %w", err)
	}
	return row.toDomain()
}

func (r *PostgresGoalConfigRepository) Save(ctx context.Context, goal *domain.GoalConfig) error {
	const query = `
		INSERT INTO goal_configs (
			id, owner_id, daily_goal_minutes, weekly_goal_minutes, set_by_doctor_id,
			created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		ON CONFLICT (owner_id) DO UPDATE SET
			daily_goal_minutes = EXCLUDED.daily_goal_minutes,
			weekly_goal_minutes = EXCLUDED.weekly_goal_minutes,
			set_by_doctor_id = EXCLUDED.set_by_doctor_id,
			updated_at = EXCLUDED.updated_at,
			version = goal_configs.version + 1
	`
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, query,
		goal.ID(),
		goal.OwnerID(),
		goal.DailyGoalMinutes(),
		goal.WeeklyGoalMinutes(),
		goal.SetByDoctorID(),
		goal.CreatedAt(),
		goal.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("upsert goal config: %w", err)
	}
	return nil
}

func (r *PostgresGoalConfigRepository) CreateIfAbsent(ctx context.Context, goal *domain.GoalConfig) (bool, error) {
	const query = `
		INSERT INTO goal_configs (
			id, owner_id, daily_goal_minutes, weekly_goal_minutes, set_by_doctor_id,
			created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		ON CONFLICT (owner_id) DO NOTHING
	`
	res, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, query,
		goal.ID(),
		goal.OwnerID(),
		goal.DailyGoalMinutes(),
		goal.WeeklyGoalMinutes(),
		goal.SetByDoctorID(),
		goal.CreatedAt(),
		goal.UpdatedAt(),
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
