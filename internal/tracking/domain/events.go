package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	RoutingKeyEntryLogged   = "tracking.entry.logged"
	RoutingKeyGoalAchieved  = "tracking.goal.achieved"
	RoutingKeyGoalAssigned  = "tracking.goal.assigned"
	RoutingKeyPatientLinked = "tracking.patient.linked"
)

const aggregateTypeDailyProgress = "DailyProgress"

// EntryLogged is emitted when a session is recorded.
type EntryLogged struct {
	sharedDomain.BaseEvent
	EntryID         uuid.UUID `json:"entry_id"`
	OwnerID         uuid.UUID `json:"owner_id"`
	Date            LocalDate `json:"date"`
	DurationMinutes int       `json:"duration_minutes"`
	HasNote         bool      `json:"has_note"`
}

// NewEntryLoggedEvent creates an EntryLogged event.
func NewEntryLoggedEvent(e *LogEntry) *EntryLogged {
	return &EntryLogged{
		BaseEvent:       sharedDomain.NewBaseEvent(e.ID(), aggregateTypeLogEntry, RoutingKeyEntryLogged, e.CreatedAt()),
		EntryID:         e.ID(),
		OwnerID:         e.OwnerID(),
		Date:            e.Date(),
		DurationMinutes: e.DurationMinutes(),
		HasNote:         e.HasNote(),
	}
}

// DailyGoalAchieved is emitted the first time an owner's total for a day
// reaches the daily goal.
type DailyGoalAchieved struct {
	sharedDomain.BaseEvent
	OwnerID          uuid.UUID `json:"owner_id"`
	Date             LocalDate `json:"date"`
	TotalMinutes     int       `json:"total_minutes"`
	DailyGoalMinutes int       `json:"daily_goal_minutes"`
}

// NewDailyGoalAchievedEvent creates a DailyGoalAchieved event.
func NewDailyGoalAchievedEvent(ownerID uuid.UUID, date LocalDate, totalMinutes, dailyGoalMinutes int, occurredAt time.Time) *DailyGoalAchieved {
	return &DailyGoalAchieved{
		BaseEvent:        sharedDomain.NewBaseEvent(ownerID, aggregateTypeDailyProgress, RoutingKeyGoalAchieved, occurredAt),
		OwnerID:          ownerID,
		Date:             date,
		TotalMinutes:     totalMinutes,
		DailyGoalMinutes: dailyGoalMinutes,
	}
}

// GoalAssigned is emitted when an owner's targets change.
type GoalAssigned struct {
	sharedDomain.BaseEvent
	GoalConfigID      uuid.UUID  `json:"goal_config_id"`
	OwnerID           uuid.UUID  `json:"owner_id"`
	DailyGoalMinutes  int        `json:"daily_goal_minutes"`
	WeeklyGoalMinutes int        `json:"weekly_goal_minutes"`
	SetByDoctorID     *uuid.UUID `json:"set_by_doctor_id,omitempty"`
}

// NewGoalAssignedEvent creates a GoalAssigned event.
func NewGoalAssignedEvent(g *GoalConfig, occurredAt time.Time) *GoalAssigned {
	return &GoalAssigned{
		BaseEvent:         sharedDomain.NewBaseEvent(g.ID(), aggregateTypeGoalConfig, RoutingKeyGoalAssigned, occurredAt),
		GoalConfigID:      g.ID(),
		OwnerID:           g.OwnerID(),
		DailyGoalMinutes:  g.DailyGoalMinutes(),
		WeeklyGoalMinutes: g.WeeklyGoalMinutes(),
		SetByDoctorID:     g.SetByDoctorID(),
	}
}

// PatientLinked is emitted when a clinician takes on a patient.
type PatientLinked struct {
	sharedDomain.BaseEvent
	DoctorID  uuid.UUID `json:"doctor_id"`
	PatientID uuid.UUID `json:"patient_id"`
}

// NewPatientLinkedEvent creates a PatientLinked event.
func NewPatientLinkedEvent(link *CareLink) *PatientLinked {
	return &PatientLinked{
		BaseEvent: sharedDomain.NewBaseEvent(link.DoctorID, aggregateTypeCareLink, RoutingKeyPatientLinked, link.LinkedAt),
		DoctorID:  link.DoctorID,
		PatientID: link.PatientID,
	}
}
