package services

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/felixgeelhaar/therapytrack/pkg/observability"
)

// GoalAchievedNotifier records the days on which owners reach their daily
// goal.
type GoalAchievedNotifier struct {
	metrics observability.Metrics
	logger  *slog.Logger
}

// NewGoalAchievedNotifier creates the handler.
func NewGoalAchievedNotifier(metrics observability.Metrics, logger *slog.Logger) *GoalAchievedNotifier {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GoalAchievedNotifier{metrics: metrics, logger: logger}
}

func (n *GoalAchievedNotifier) RoutingKeys() []string {
	return []string{domain.RoutingKeyGoalAchieved}
}

func (n *GoalAchievedNotifier) Handle(ctx context.Context, env *eventbus.Envelope) error {
	var payload domain.DailyGoalAchieved
	if err := env.DecodePayload(&payload); err != nil {
		return err
	}

	n.metrics.Counter(observability.MetricGoalsAchieved, 1)
	n.logger.InfoContext(ctx, "daily goal achieved",
		"owner_id", payload.OwnerID,
		"date", payload.Date.String(),
		"total_minutes", payload.TotalMinutes,
		"daily_goal_minutes", payload.DailyGoalMinutes,
	)
	return nil
}
