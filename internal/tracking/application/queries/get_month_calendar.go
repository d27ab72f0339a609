package queries

import (
	"context"
	"time"

	sharedDomain "github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain/progress"
	"github.com/google/uuid"
)

// GetMonthCalendarQuery asks for one month of an owner's calendar. A zero
// Year or Month selects the current month in the owner's zone.
type GetMonthCalendarQuery struct {
	ViewerID uuid.UUID
	OwnerID  uuid.UUID
	Year     int
	Month    time.Month
}

// GetMonthCalendarHandler handles GetMonthCalendarQuery.
type GetMonthCalendarHandler struct {
	entries  domain.LogEntryRepository
	goals    domain.GoalConfigRepository
	careTeam domain.CareTeamRepository
	policy   domain.BoundaryPolicy
	clock    sharedDomain.Clock
}

// NewGetMonthCalendarHandler creates a new GetMonthCalendarHandler.
func NewGetMonthCalendarHandler(
	entries domain.LogEntryRepository,
	goals domain.GoalConfigRepository,
	careTeam domain.CareTeamRepository,
	policy domain.BoundaryPolicy,
	clock sharedDomain.Clock,
) *GetMonthCalendarHandler {
	return &GetMonthCalendarHandler{
		entries:  entries,
		goals:    goals,
		careTeam: careTeam,
		policy:   policy,
		clock:    clock,
	}
}

// Handle executes the GetMonthCalendarQuery.
func (h *GetMonthCalendarHandler) Handle(ctx context.Context, query GetMonthCalendarQuery) (*progress.MonthCalendar, error) {
	if err := domain.AuthorizeAccess(ctx, h.careTeam, query.ViewerID, query.OwnerID); err != nil {
		return nil, err
	}

	today := h.policy.Today(h.clock.Now())
	year, month := query.Year, query.Month
	if year == 0 || month == 0 {
		year, month = today.Year, today.Month
	}

	first := domain.NewLocalDate(year, month, 1)
	last := domain.NewLocalDate(first.Year, first.Month, domain.DaysInMonth(first.Year, first.Month))

	targets, err := loadTargets(ctx, h.goals, query.OwnerID)
	if err != nil {
		return nil, err
	}
	aggregates, err := loadAggregates(ctx, h.entries, query.OwnerID, first, last)
	if err != nil {
		return nil, err
	}

	return progress.BuildMonth(first.Year, first.Month, aggregates, targets.DailyMinutes, today)
}
