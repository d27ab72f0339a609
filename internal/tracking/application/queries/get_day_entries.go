package queries

import (
	"context"

	sharedDomain "github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain/progress"
	"github.com/google/uuid"
)

// GetDayEntriesQuery lists one day's entries. A zero Date means today.
type GetDayEntriesQuery struct {
	ViewerID uuid.UUID
	OwnerID  uuid.UUID
	Date     domain.LocalDate
}

// GetDayEntriesHandler handles GetDayEntriesQuery.
type GetDayEntriesHandler struct {
	entries  domain.LogEntryRepository
	goals    domain.GoalConfigRepository
	careTeam domain.CareTeamRepository
	policy   domain.BoundaryPolicy
	clock    sharedDomain.Clock
}

// NewGetDayEntriesHandler creates a new GetDayEntriesHandler.
func NewGetDayEntriesHandler(
	entries domain.LogEntryRepository,
	goals domain.GoalConfigRepository,
	careTeam domain.CareTeamRepository,
	policy domain.BoundaryPolicy,
	clock sharedDomain.Clock,
) *GetDayEntriesHandler {
	return &GetDayEntriesHandler{
		entries:  entries,
		goals:    goals,
		careTeam: careTeam,
		policy:   policy,
		clock:    clock,
	}
}

// Handle executes the GetDayEntriesQuery.
func (h *GetDayEntriesHandler) Handle(ctx context.Context, query GetDayEntriesQuery) (*DayEntriesDTO, error) {
	if err := domain.AuthorizeAccess(ctx, h.careTeam, query.ViewerID, query.OwnerID); err != nil {
		return nil, err
	}

	today := h.policy.Today(h.clock.Now())
	date := query.Date
	if date.IsZero() {
		date = today
	}

	targets, err := loadTargets(ctx, h.goals, query.OwnerID)
	if err != nil {
		return nil, err
	}
	aggregates, err := loadAggregates(ctx, h.entries, query.OwnerID, date, date)
	if err != nil {
		return nil, err
	}

	dto := &DayEntriesDTO{
		Date:             date,
		DailyGoalMinutes: targets.DailyMinutes,
		Band:             progress.BandNone,
		Loggable:         h.policy.IsLoggable(date, today),
		Entries:          make([]EntryDTO, 0),
	}
	if len(aggregates) == 0 {
		return dto, nil
	}

	agg := aggregates[0]
	percentage, err := progress.Percentage(agg.TotalMinutes, targets.DailyMinutes)
	if err != nil {
		return nil, err
	}
	dto.TotalMinutes = agg.TotalMinutes
	dto.EntryCount = agg.EntryCount
	dto.Percentage = percentage
	dto.DisplayPercent = progress.DisplayPercent(percentage)
	dto.Band = progress.BandFor(percentage, true)
	for _, e := range agg.Entries {
		dto.Entries = append(dto.Entries, EntryDTO{
			ID:              e.ID(),
			Date:            e.Date(),
			DurationMinutes: e.DurationMinutes(),
			Note:            e.Note(),
			CreatedAt:       e.CreatedAt(),
		})
	}
	return dto, nil
}
