package queries

import (
	"time"

	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain/progress"
	"github.com/google/uuid"
)

// GoalDTO is the read model of a goal configuration.
type GoalDTO struct {
	ID                uuid.UUID  `json:"id"`
	OwnerID           uuid.UUID  `json:"owner_id"`
	DailyGoalMinutes  int        `json:"daily_goal_minutes"`
	WeeklyGoalMinutes int        `json:"weekly_goal_minutes"`
	SetByDoctorID     *uuid.UUID `json:"set_by_doctor_id,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func toGoalDTO(g *domain.GoalConfig) *GoalDTO {
	return &GoalDTO{
		ID:                g.ID(),
		OwnerID:           g.OwnerID(),
		DailyGoalMinutes:  g.DailyGoalMinutes(),
		WeeklyGoalMinutes: g.WeeklyGoalMinutes(),
		SetByDoctorID:     g.SetByDoctorID(),
		UpdatedAt:         g.UpdatedAt(),
	}
}

// EntryDTO is the read model of a log entry.
type EntryDTO struct {
	ID              uuid.UUID        `json:"id"`
	Date            domain.LocalDate `json:"date"`
	DurationMinutes int              `json:"duration_minutes"`
	Note            string           `json:"note,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// DayEntriesDTO is one day's entries and the day's progress.
type DayEntriesDTO struct {
	Date             domain.LocalDate `json:"date"`
	DailyGoalMinutes int              `json:"daily_goal_minutes"`
	TotalMinutes     int              `json:"total_minutes"`
	EntryCount       int              `json:"entry_count"`
	Percentage       float64          `json:"percentage"`
	DisplayPercent   int              `json:"display_percent"`
	Band             progress.Band    `json:"band"`
	Loggable         bool             `json:"loggable"`
	Entries          []EntryDTO       `json:"entries"`
}

// PatientDTO is one row of a clinician's patient list.
type PatientDTO struct {
	domain.PatientSummary
	WeeklyTotalMinutes   int     `json:"weekly_total_minutes"`
	WeeklyPercentage     float64 `json:"weekly_percentage"`
	WeeklyDisplayPercent int     `json:"weekly_display_percent"`
	DaysGoalMet          int     `json:"days_goal_met"`
}

// PatientListDTO is a clinician's patient list for the current week.
type PatientListDTO struct {
	ClinicianID uuid.UUID        `json:"clinician_id"`
	WeekStart   domain.LocalDate `json:"week_start"`
	GeneratedAt time.Time        `json:"generated_at"`
	Patients    []PatientDTO     `json:"patients"`
}
