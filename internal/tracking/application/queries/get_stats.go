package queries

import (
	"context"

	sharedDomain "github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain/progress"
	"github.com/google/uuid"
)

// DefaultStatsDays is the history window used when a stats query gives no
// start date.
const DefaultStatsDays = 365

// GetStatsQuery asks for adherence statistics over [From, today]. A zero
// From covers the last DefaultStatsDays days.
type GetStatsQuery struct {
	ViewerID uuid.UUID
	OwnerID  uuid.UUID
	From     domain.LocalDate
}

// StatsDTO is the statistics read model with the window it covers.
type StatsDTO struct {
	progress.Stats
	From             domain.LocalDate `json:"from"`
	To               domain.LocalDate `json:"to"`
	DailyGoalMinutes int              `json:"daily_goal_minutes"`
}

// GetStatsHandler handles GetStatsQuery.
type GetStatsHandler struct {
	entries  domain.LogEntryRepository
	goals    domain.GoalConfigRepository
	careTeam domain.CareTeamRepository
	policy   domain.BoundaryPolicy
	clock    sharedDomain.Clock
}

// NewGetStatsHandler creates a new GetStatsHandler.
func NewGetStatsHandler(
	entries domain.LogEntryRepository,
	goals domain.GoalConfigRepository,
	careTeam domain.CareTeamRepository,
	policy domain.BoundaryPolicy,
	clock sharedDomain.Clock,
) *GetStatsHandler {
	return &GetStatsHandler{
		entries:  entries,
		goals:    goals,
		careTeam: careTeam,
		policy:   policy,
		clock:    clock,
	}
}

// Handle executes the GetStatsQuery.
func (h *GetStatsHandler) Handle(ctx context.Context, query GetStatsQuery) (*StatsDTO, error) {
	if err := domain.AuthorizeAccess(ctx, h.careTeam, query.ViewerID, query.OwnerID); err != nil {
		return nil, err
	}

	today := h.policy.Today(h.clock.Now())
	from := query.From
	if from.IsZero() || from.After(today) {
		from = today.AddDays(-(DefaultStatsDays - 1))
	}

	targets, err := loadTargets(ctx, h.goals, query.OwnerID)
	if err != nil {
		return nil, err
	}
	aggregates, err := loadAggregates(ctx, h.entries, query.OwnerID, from, today)
	if err != nil {
		return nil, err
	}

	stats, err := progress.ComputeStats(aggregates, targets.DailyMinutes, today)
	if err != nil {
		return nil, err
	}
	return &StatsDTO{
		Stats:            *stats,
		From:             from,
		To:               today,
		DailyGoalMinutes: targets.DailyMinutes,
	}, nil
}
