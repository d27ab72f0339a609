package commands

import (
	"context"
	"log/slog"

	sharedDomain "github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain/progress"
	"github.com/felixgeelhaar/therapytrack/pkg/observability"
	"github.com/google/uuid"
)

// LogEntryCommand records a therapy session for the acting owner.
type LogEntryCommand struct {
	OwnerID uuid.UUID
	// Date defaults to the owner's today when zero.
	Date            domain.LocalDate
	DurationMinutes int
	Note            string
}

// LogEntryResult reports the entry and the day's progress after it.
type LogEntryResult struct {
	EntryID          uuid.UUID        `json:"entry_id"`
	Date             domain.LocalDate `json:"date"`
	DayTotalMinutes  int              `json:"day_total_minutes"`
	DayEntryCount    int              `json:"day_entry_count"`
	DailyGoalMinutes int              `json:"daily_goal_minutes"`
	DayPercentage    float64          `json:"day_percentage"`
	GoalAchieved     bool             `json:"goal_achieved"`
}

// LogEntryHandler handles LogEntryCommand.
type LogEntryHandler struct {
	entries   domain.LogEntryRepository
	goals     domain.GoalConfigRepository
	uow       database.UnitOfWork
	publisher eventbus.Publisher
	policy    domain.BoundaryPolicy
	clock     sharedDomain.Clock
	metrics   observability.Metrics
	logger    *slog.Logger
}

// NewLogEntryHandler creates a new LogEntryHandler.
func NewLogEntryHandler(
	entries domain.LogEntryRepository,
	goals domain.GoalConfigRepository,
	uow database.UnitOfWork,
	publisher eventbus.Publisher,
	policy domain.BoundaryPolicy,
	clock sharedDomain.Clock,
	metrics observability.Metrics,
	logger *slog.Logger,
) *LogEntryHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = eventbus.NewNoopPublisher(logger)
	}
	return &LogEntryHandler{
		entries:   entries,
		goals:     goals,
		uow:       uow,
		publisher: publisher,
		policy:    policy,
		clock:     clock,
		metrics:   metrics,
		logger:    logger,
	}
}

// Handle executes the LogEntryCommand.
func (h *LogEntryHandler) Handle(ctx context.Context, cmd LogEntryCommand) (*LogEntryResult, error) {
	now := h.clock.Now()
	today := h.policy.Today(now)

	date := cmd.Date
	if date.IsZero() {
		date = today
	}
	if err := h.policy.CheckLoggable(date, today); err != nil {
		h.metrics.Counter(observability.MetricEntriesRejected, 1, observability.T("reason", "date_range"))
		return nil, err
	}

	var (
		entry  *domain.LogEntry
		result *LogEntryResult
	)
	err := database.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		count, err := h.entries.CountByOwnerAndDate(txCtx, cmd.OwnerID, date)
		if err != nil {
			return err
		}
		if count >= domain.MaxEntriesPerDay {
			return domain.ErrDailyEntryLimit
		}

		entry, err = domain.NewLogEntry(cmd.OwnerID, date, cmd.DurationMinutes, cmd.Note, now)
		if err != nil {
			return err
		}
		if err := h.entries.Create(txCtx, entry); err != nil {
			return err
		}

		dayEntries, err := h.entries.ListByOwnerAndRange(txCtx, cmd.OwnerID, date, date)
		if err != nil {
			return err
		}
		goal, err := h.goals.GetByOwner(txCtx, cmd.OwnerID)
		if err != nil {
			return err
		}

		result, err = dayResult(entry, dayEntries, progress.TargetsOf(goal).DailyMinutes)
		return err
	})
	if err != nil {
		return nil, err
	}

	events := entry.DomainEvents()
	if result.GoalAchieved {
		events = append(events, domain.NewDailyGoalAchievedEvent(
			cmd.OwnerID, date, result.DayTotalMinutes, result.DailyGoalMinutes, now))
		h.metrics.Counter(observability.MetricGoalsCrossed, 1)
	}
	if err := eventbus.PublishEvents(ctx, h.publisher, cmd.OwnerID, events); err != nil {
		h.logger.WarnContext(ctx, "failed to publish entry events",
			"entry_id", entry.ID(),
			"error", err,
		)
	}
	entry.ClearDomainEvents()

	h.metrics.Counter(observability.MetricEntriesLogged, 1)
	h.metrics.Histogram(observability.MetricEntryMinutes, float64(entry.DurationMinutes()))
	h.logger.InfoContext(ctx, "entry logged",
		"entry_id", entry.ID(),
		"owner_id", cmd.OwnerID,
		"date", date.String(),
		"duration_minutes", entry.DurationMinutes(),
		"day_total_minutes", result.DayTotalMinutes,
	)

	return result, nil
}

// dayResult sums the day including the new entry. The goal counts as
// achieved only when this entry moved the total across it.
func dayResult(entry *domain.LogEntry, dayEntries []*domain.LogEntry, dailyGoal int) (*LogEntryResult, error) {
	var total int
	count := 0
	for _, agg := range progress.Normalize(dayEntries) {
		total += agg.TotalMinutes
		count += agg.EntryCount
	}

	percentage, err := progress.Percentage(total, dailyGoal)
	if err != nil {
		return nil, err
	}
	before := total - entry.DurationMinutes()

	return &LogEntryResult{
		EntryID:          entry.ID(),
		Date:             entry.Date(),
		DayTotalMinutes:  total,
		DayEntryCount:    count,
		DailyGoalMinutes: dailyGoal,
		DayPercentage:    percentage,
		GoalAchieved:     before < dailyGoal && total >= dailyGoal,
	}, nil
}
