package queries

import (
	"context"

	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain/progress"
	"github.com/google/uuid"
)

// loadAggregates reads the owner's entries in [from, to] and normalizes
// them into daily aggregates.
func loadAggregates(ctx context.Context, entries domain.LogEntryRepository, ownerID uuid.UUID, from, to domain.LocalDate) ([]progress.DailyAggregate, error) {
	list, err := entries.ListByOwnerAndRange(ctx, ownerID, from, to)
	if err != nil {
		return nil, err
	}
	return progress.Normalize(list), nil
}

// loadTargets reads the owner's targets without creating a configuration.
func loadTargets(ctx context.Context, goals domain.GoalConfigRepository, ownerID uuid.UUID) (progress.Targets, error) {
	goal, err := goals.GetByOwner(ctx, ownerID)
	if err != nil {
		return progress.Targets{}, err
	}
	return progress.TargetsOf(goal), nil
}
