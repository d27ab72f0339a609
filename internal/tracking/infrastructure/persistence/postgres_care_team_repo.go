package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/google/uuid"
)

// PostgresCareTeamRepository implements domain.CareTeamRepository on PostgreSQL.
type PostgresCareTeamRepository struct {
	conn database.Connection
}

// NewPostgresCareTeamRepository creates the repository.
func NewPostgresCareTeamRepository(conn database.Connection) *PostgresCareTeamRepository {
	return &PostgresCareTeamRepository{conn: conn}
}

func (r *PostgresCareTeamRepository) Link(ctx context.Context, link *domain.CareLink) error {
	const query = `
		INSERT INTO care_links (doctor_id, patient_id, linked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (doctor_id, patient_id) DO NOTHING
	`
	if _, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, query, link.DoctorID, link.PatientID, link.LinkedAt); err != nil {
		return fmt.Errorf("insert care link: %w", err)
	}
	return nil
}

func (r *PostgresCareTeamRepository) IsLinked(ctx context.Context, doctorID, patientID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM care_links WHERE doctor_id = $1 AND patient_id = $2)`

	var linked bool
	if err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, query, doctorID, patientID).Scan(&linked); err != nil {
		return false, fmt.Errorf("query care link: %w", err)
	}
	return linked, nil
}

func (r *PostgresCareTeamRepository) ListPatients(ctx context.Context, doctorID uuid.UUID) ([]domain.PatientSummary, error) {
	const query = `
		SELECT cl.patient_id, cl.linked_at,
		       COALESCE(g.daily_goal_minutes, $2),
		       COALESCE(g.weekly_goal_minutes, $3),
		       (SELECT to_char(MAX(e.entry_date), 'YYYY-MM-DD') FROM log_entries e WHERE e.owner_id = cl.patient_id)
		FROM care_links cl
		LEFT JOIN goal_configs g ON g.owner_id = cl.patient_id
		WHERE cl.doctor_id = $1
		ORDER BY cl.linked_at, cl.patient_id
	`
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, query,
		doctorID, domain.DefaultDailyGoalMinutes, domain.DefaultWeeklyGoalMinutes)
	if err != nil {
		return nil, fmt.Errorf("query patients: %w", err)
	}
	defer rows.Close()

	patients := make([]domain.PatientSummary, 0)
	for rows.Next() {
		var row patientRow
		if err := rows.Scan(&row.patientID, &row.linkedAt, &row.daily, &row.weekly, &row.lastEntry); err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		summary, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		patients = append(patients, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patients: %w", err)
	}
	return patients, nil
}
