package domain

import (
	"fmt"
	"time"

	sharedDomain "github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	DefaultDailyGoalMinutes = 240
	MinDailyGoalMinutes     = 30
	MaxDailyGoalMinutes     = 720

	DefaultWeeklyGoalMinutes = 1680
	MinWeeklyGoalMinutes     = 210
	MaxWeeklyGoalMinutes     = 5040
)

const aggregateTypeGoalConfig = "GoalConfig"

// GoalConfig holds the daily and weekly targets of one owner. There is
// exactly one per owner; it is created with defaults on first read.
type GoalConfig struct {
	sharedDomain.BaseAggregateRoot
	ownerID           uuid.UUID
	dailyGoalMinutes  int
	weeklyGoalMinutes int
	setByDoctorID     *uuid.UUID
}

// NewDefaultGoalConfig creates the default configuration for an owner.
func NewDefaultGoalConfig(ownerID uuid.UUID, now time.Time) (*GoalConfig, error) {
	if ownerID == uuid.Nil {
		return nil, ErrEmptyOwner
	}
	return &GoalConfig{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRootAt(now),
		ownerID:           ownerID,
		dailyGoalMinutes:  DefaultDailyGoalMinutes,
		weeklyGoalMinutes: DefaultWeeklyGoalMinutes,
	}, nil
}

// RehydrateGoalConfig rebuilds a configuration from a persisted row.
func RehydrateGoalConfig(
	id uuid.UUID,
	ownerID uuid.UUID,
	dailyGoalMinutes int,
	weeklyGoalMinutes int,
	setByDoctorID *uuid.UUID,
	createdAt, updatedAt time.Time,
	version int,
) (*GoalConfig, error) {
	if ownerID == uuid.Nil {
		return nil, malformed(aggregateTypeGoalConfig, "owner_id", "is empty", nil)
	}
	if err := ValidateDailyGoal(dailyGoalMinutes); err != nil {
		return nil, malformed(aggregateTypeGoalConfig, "daily_goal_minutes", fmt.Sprintf("has value %d", dailyGoalMinutes), err)
	}
	if err := ValidateWeeklyGoal(weeklyGoalMinutes); err != nil {
		return nil, malformed(aggregateTypeGoalConfig, "weekly_goal_minutes", fmt.Sprintf("has value %d", weeklyGoalMinutes), err)
	}

	base := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	return &GoalConfig{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(base, version),
		ownerID:           ownerID,
		dailyGoalMinutes:  dailyGoalMinutes,
		weeklyGoalMinutes: weeklyGoalMinutes,
		setByDoctorID:     setByDoctorID,
	}, nil
}

func (g *GoalConfig) OwnerID() uuid.UUID        { return g.ownerID }
func (g *GoalConfig) DailyGoalMinutes() int     { return g.dailyGoalMinutes }
func (g *GoalConfig) WeeklyGoalMinutes() int    { return g.weeklyGoalMinutes }
func (g *GoalConfig) SetByDoctorID() *uuid.UUID { return g.setByDoctorID }

// Assign replaces both targets. setByDoctorID is nil when the owner sets
// their own goal.
func (g *GoalConfig) Assign(dailyGoalMinutes, weeklyGoalMinutes int, setByDoctorID *uuid.UUID, now time.Time) error {
	if err := ValidateDailyGoal(dailyGoalMinutes); err != nil {
		return err
	}
	if err := ValidateWeeklyGoal(weeklyGoalMinutes); err != nil {
		return err
	}

	g.dailyGoalMinutes = dailyGoalMinutes
	g.weeklyGoalMinutes = weeklyGoalMinutes
	g.setByDoctorID = setByDoctorID
	g.TouchAt(now)

	g.AddDomainEvent(NewGoalAssignedEvent(g, now))
	return nil
}

// ValidateDailyGoal checks the daily target against policy bounds.
func ValidateDailyGoal(minutes int) error {
	if minutes < MinDailyGoalMinutes || minutes > MaxDailyGoalMinutes {
		return fmt.Errorf("%w: daily goal %d not in [%d, %d]",
			ErrGoalOutOfBounds, minutes, MinDailyGoalMinutes, MaxDailyGoalMinutes)
	}
	return nil
}

// ValidateWeeklyGoal checks the weekly target against policy bounds.
func ValidateWeeklyGoal(minutes int) error {
	if minutes < MinWeeklyGoalMinutes || minutes > MaxWeeklyGoalMinutes {
		return fmt.Errorf("%w: weekly goal %d not in [%d, %d]",
			ErrGoalOutOfBounds, minutes, MinWeeklyGoalMinutes, MaxWeeklyGoalMinutes)
	}
	return nil
}
