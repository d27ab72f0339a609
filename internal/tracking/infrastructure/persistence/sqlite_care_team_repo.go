package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/google/uuid"
)

// SQLiteCareTeamRepository implements domain.CareTeamRepository on SQLite.
type SQLiteCareTeamRepository struct {
	conn database.Connection
}

// NewSQLiteCareTeamRepository creates the repository.
func NewSQLiteCareTeamRepository(conn database.Connection) *SQLiteCareTeamRepository {
	return &SQLiteCareTeamRepository{conn: conn}
}

func (r *SQLiteCareTeamRepository) Link(ctx context.Context, link *domain.CareLink) error {
	const query = `
		INSERT INTO care_links (doctor_id, patient_id, linked_at)
		VALUES (?, ?, ?)
		ON CONFLICT (doctor_id, patient_id) DO NOTHING
	`
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, query,
		link.DoctorID.String(), link.PatientID.String(), formatSQLiteTime(link.LinkedAt))
	if err != nil {
		return fmt.Errorf("insert care link: %w", err)
	}
	return nil
}

func (r *SQLiteCareTeamRepository) IsLinked(ctx context.Context, doctorID, patientID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM care_links WHERE doctor_id = ? AND patient_id = ?)`

	var linked bool
	if err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, query, doctorID.String(), patientID.String()).Scan(&linked); err != nil {
		return false, fmt.Errorf("query care link: %w", err)
	}
	return linked, nil
}

func (r *SQLiteCareTeamRepository) ListPatients(ctx context.Context, doctorID uuid.UUID) ([]domain.PatientSummary, error) {
	const query = `
		SELECT cl.patient_id, cl.linked_at,
		       COALESCE(g.daily_goal_minutes, ?),
		       COALESCE(g.weekly_goal_minutes, ?),
		       (SELECT MAX(e.entry_date) FROM log_entries e WHERE e.owner_id = cl.patient_id)
		FROM care_links cl
		LEFT JOIN goal_configs g ON g.owner_id = cl.patient_id
		WHERE cl.doctor_id = ?
		ORDER BY cl.linked_at, cl.patient_id
	`
	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, query,
		domain.DefaultDailyGoalMinutes, domain.DefaultWeeklyGoalMinutes, doctorID.String())
	if err != nil {
		return nil, fmt.Errorf("query patients: %w", err)
	}
	defer rows.Close()

	const record = "CareLink"
	patients := make([]domain.PatientSummary, 0)
	for rows.Next() {
		var (
			patientID, linkedAt string
			row                 patientRow
		)
		if err := rows.Scan(&patientID, &linkedAt, &row.daily, &row.weekly, &row.lastEntry); err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		if row.patientID, err = parseUUID(record, "patient_id", patientID); err != nil {
			return nil, err
		}
		if row.linkedAt, err = parseSQLiteTime(record, "linked_at", linkedAt); err != nil {
			return nil, err
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
