package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const aggregateTypeCareLink = "CareLink"

var ErrSelfLink = errors.New("a clinician cannot be linked to themselves")

// CareLink grants a clinician read access to a patient's progress and the
// right to assign their goals.
type CareLink struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	LinkedAt  time.Time
}

// NewCareLink validates and creates a link.
func NewCareLink(doctorID, patientID uuid.UUID, now time.Time) (*CareLink, error) {
	if doctorID == uuid.Nil || patientID == uuid.Nil {
		return nil, ErrEmptyOwner
	}
	if doctorID == patientID {
		return nil, ErrSelfLink
	}
	return &CareLink{DoctorID: doctorID, PatientID: patientID, LinkedAt: now.UTC()}, nil
}

// PatientSummary is one row of a clinician's patient list.
type PatientSummary struct {
	PatientID         uuid.UUID  `json:"patient_id"`
	LinkedAt          time.Time  `json:"linked_at"`
	DailyGoalMinutes  int        `json:"daily_goal_minutes"`
	WeeklyGoalMinutes int        `json:"weekly_goal_minutes"`
	LastEntryDate     *LocalDate `json:"last_entry_date,omitempty"`
}

// AuthorizeAccess allows actorID to act on ownerID's data when they are the
// same person or the actor is a linked clinician. It returns ErrNotAuthorized
// otherwise.
func AuthorizeAccess(ctx context.Context, careTeam CareTeamRepository, actorID, ownerID uuid.UUID) error {
	if actorID == uuid.Nil || ownerID == uuid.Nil {
		return ErrEmptyOwner
	}
	if actorID == ownerID {
		return nil
	}
	linked, err := careTeam.IsLinked(ctx, actorID, ownerID)
	if err != nil {
		return fmt.Errorf("check care link: %w", err)
	}
	if !linked {
		return ErrNotAuthorized
	}
	return nil
}
