package queries

import (
	"context"

	sharedDomain "github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain/progress"
	"github.com/google/uuid"
)

// GetWeekProgressQuery asks for the week containing Reference, or the
// current week when Reference is zero.
type GetWeekProgressQuery struct {
	ViewerID  uuid.UUID
	OwnerID   uuid.UUID
	Reference domain.LocalDate
}

// GetWeekProgressHandler handles GetWeekProgressQuery.
type GetWeekProgressHandler struct {
	entries  domain.LogEntryRepository
	goals    domain.GoalConfigRepository
	careTeam domain.CareTeamRepository
	policy   domain.BoundaryPolicy
	clock    sharedDomain.Clock
}

// NewGetWeekProgressHandler creates a new GetWeekProgressHandler.
func NewGetWeekProgressHandler(
	entries domain.LogEntryRepository,
	goals domain.GoalConfigRepository,
	careTeam domain.CareTeamRepository,
	policy domain.BoundaryPolicy,
	clock sharedDomain.Clock,
) *GetWeekProgressHandler {
	return &GetWeekProgressHandler{
		entries:  entries,
		goals:    goals,
		careTeam: careTeam,
		policy:   policy,
		clock:    clock,
	}
}

// Handle executes the GetWeekProgressQuery.
func (h *GetWeekProgressHandler) Handle(ctx context.Context, query GetWeekProgressQuery) (*progress.WeekWindow, error) {
	if err := domain.AuthorizeAccess(ctx, h.careTeam, query.ViewerID, query.OwnerID); err != nil {
		return nil, err
	}

	today := h.policy.Today(h.clock.Now())
	reference := query.Reference
	if reference.IsZero() {
		reference = today
	}
	start := progress.WeekStart(reference)

	targets, err := loadTargets(ctx, h.goals, query.OwnerID)
	if err != nil {
		return nil, err
	}
	aggregates, err := loadAggregates(ctx, h.entries, query.OwnerID, start, start.AddDays(progress.DaysPerWeek-1))
	if err != nil {
		return nil, err
	}

	return progress.BuildWeek(reference, today, aggregates, targets)
}
