package queries

import (
	"context"
	"fmt"

	sharedDomain "github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/google/uuid"
)

// GetGoalQuery reads an owner's goal configuration.
type GetGoalQuery struct {
	ViewerID uuid.UUID
	OwnerID  uuid.UUID
}

// GetGoalHandler handles GetGoalQuery. The first read of an owner's goal
// stores the default configuration.
type GetGoalHandler struct {
	goals    domain.GoalConfigRepository
	careTeam domain.CareTeamRepository
	clock    sharedDomain.Clock
}

// NewGetGoalHandler creates a new GetGoalHandler.
func NewGetGoalHandler(goals domain.GoalConfigRepository, careTeam domain.CareTeamRepository, clock sharedDomain.Clock) *GetGoalHandler {
	return &GetGoalHandler{goals: goals, careTeam: careTeam, clock: clock}
}

// Handle executes the GetGoalQuery.
func (h *GetGoalHandler) Handle(ctx context.Context, query GetGoalQuery) (*GoalDTO, error) {
	if err := domain.AuthorizeAccess(ctx, h.careTeam, query.ViewerID, query.OwnerID); err != nil {
		return nil, err
	}

	goal, err := h.goals.GetByOwner(ctx, query.OwnerID)
	if err != nil {
		return nil, err
	}
	if goal != nil {
		return toGoalDTO(goal), nil
	}

	goal, err = domain.NewDefaultGoalConfig(query.OwnerID, h.clock.Now())
	if err != nil {
		return nil, err
	}
	created, err := h.goals.CreateIfAbsent(ctx, goal)
	if err != nil {
		return nil, err
	}
	if created {
		return toGoalDTO(goal), nil
	}

	// Another writer stored a goal between the read and the insert.
	goal, err = h.goals.GetByOwner(ctx, query.OwnerID)
	if err != nil {
		return nil, err
	}
	if goal == nil {
		return nil, fmt.Errorf("goal for owner %s missing after conflicting insert", query.OwnerID)
	}
	return toGoalDTO(goal), nil
}
