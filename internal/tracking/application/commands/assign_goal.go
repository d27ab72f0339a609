package commands

import (
	"context"
	"log/slog"

	sharedDomain "github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/google/uuid"
)

// AssignGoalCommand sets an owner's targets. The actor is the owner or one
// of their linked clinicians.
type AssignGoalCommand struct {
	ActorID          uuid.UUID
	OwnerID          uuid.UUID
	DailyGoalMinutes int
	// WeeklyGoalMinutes keeps the current weekly target when zero.
	WeeklyGoalMinutes int
}

// AssignGoalResult contains the stored targets.
type AssignGoalResult struct {
	GoalConfigID      uuid.UUID  `json:"goal_config_id"`
	DailyGoalMinutes  int        `json:"daily_goal_minutes"`
	WeeklyGoalMinutes int        `json:"weekly_goal_minutes"`
	SetByDoctorID     *uuid.UUID `json:"set_by_doctor_id,omitempty"`
}

// AssignGoalHandler handles AssignGoalCommand.
type AssignGoalHandler struct {
	goals     domain.GoalConfigRepository
	careTeam  domain.CareTeamRepository
	uow       database.UnitOfWork
	publisher eventbus.Publisher
	clock     sharedDomain.Clock
	logger    *slog.Logger
}

// NewAssignGoalHandler creates a new AssignGoalHandler.
func NewAssignGoalHandler(
	goals domain.GoalConfigRepository,
	careTeam domain.CareTeamRepository,
	uow database.UnitOfWork,
	publisher eventbus.Publisher,
	clock sharedDomain.Clock,
	logger *slog.Logger,
) *AssignGoalHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = eventbus.NewNoopPublisher(logger)
	}
	return &AssignGoalHandler{
		goals:     goals,
		careTeam:  careTeam,
		uow:       uow,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// Handle executes the AssignGoalCommand.
func (h *AssignGoalHandler) Handle(ctx context.Context, cmd AssignGoalCommand) (*AssignGoalResult, error) {
	now := h.clock.Now()

	var goal *domain.GoalConfig
	err := database.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := domain.AuthorizeAccess(txCtx, h.careTeam, cmd.ActorID, cmd.OwnerID); err != nil {
			return err
		}

		var err error
		goal, err = h.goals.GetByOwner(txCtx, cmd.OwnerID)
		if err != nil {
			return err
		}
		if goal == nil {
			if goal, err = domain.NewDefaultGoalConfig(cmd.OwnerID, now); err != nil {
				return err
			}
		}

		weekly := cmd.WeeklyGoalMinutes
		if weekly == 0 {
			weekly = goal.WeeklyGoalMinutes()
		}
		var setBy *uuid.UUID
		if cmd.ActorID != cmd.OwnerID {
			doctorID := cmd.ActorID
			setBy = &doctorID
		}

		if err := goal.Assign(cmd.DailyGoalMinutes, weekly, setBy, now); err != nil {
			return err
		}
		return h.goals.Save(txCtx, goal)
	})
	if err != nil {
		return nil, err
	}

	if err := eventbus.PublishEvents(ctx, h.publisher, cmd.ActorID, goal.DomainEvents()); err != nil {
		h.logger.WarnContext(ctx, "failed to publish goal events",
			"owner_id", cmd.OwnerID,
			"error", err,
		)
	}
	goal.ClearDomainEvents()

	h.logger.InfoContext(ctx, "goal assigned",
		"owner_id", cmd.OwnerID,
		"actor_id", cmd.ActorID,
		"daily_goal_minutes", goal.DailyGoalMinutes(),
		"weekly_goal_minutes", goal.WeeklyGoalMinutes(),
	)

	return &AssignGoalResult{
		GoalConfigID:      goal.ID(),
		DailyGoalMinutes:  goal.DailyGoalMinutes(),
		WeeklyGoalMinutes: goal.WeeklyGoalMinutes(),
		SetByDoctorID:     goal.SetByDoctorID(),
	}, nil
}
