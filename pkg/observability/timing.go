package observability

import (
	"context"
	"log/slog"
	"time"
)

// Timer tracks the duration of an operation and records it on stop.
type Timer struct {
	operation string
	start     time.Time
	logger    *slog.Logger
	metrics   Metrics
	tags      []Tag
}

// StartTimer creates a new timer for the given operation.
func StartTimer(operation string) *Timer {
	return &Timer{
		operation: operation,
		start:     time.Now(),
	}
}

// WithLogger logs the outcome on stop.
func (t *Timer) WithLogger(logger *slog.Logger) *Timer {
	t.logger = logger
	return t
}

// WithMetrics records duration and counts on stop.
func (t *Timer) WithMetrics(metrics Metrics) *Timer {
	t.metrics = metrics
	return t
}

// WithTags adds tags to the recorded metrics.
func (t *Timer) WithTags(tags ...Tag) *Timer {
	t.tags = append(t.tags, tags...)
	return t
}

// Stop records a successful operation.
func (t *Timer) Stop(ctx context.Context) time.Duration {
	return t.StopWithError(ctx, nil)
}

// StopWithError records the operation; a non-nil err counts as a failure.
func (t *Timer) StopWithError(ctx context.Context, err error) time.Duration {
	duration := time.Since(t.start)

	if t.logger != nil {
		// NewLogger's handler adds the operation attribute from ctx.
		ctx = WithOperation(ctx, t.operation)
		if err != nil {
			t.logger.WarnContext(ctx, "operation failed", DurationKey, duration.Milliseconds(), "error", err.Error())
		} else {
			t.logger.DebugContext(ctx, "operation completed", DurationKey, duration.Milliseconds())
		}
	}

	if t.metrics != nil {
		tags := append(t.tags, T("operation", t.operation))
		t.metrics.Timing(MetricOperationDuration, duration, tags...)
		t.metrics.Counter(MetricOperationTotal, 1, tags...)
		if err != nil {
			t.metrics.Counter(MetricOperationErrors, 1, tags...)
		}
	}

	return duration
}

// TimeOperationResult times fn and records its outcome. fn receives ctx
// tagged with the operation name.
func TimeOperationResult[T any](ctx context.Context, logger *slog.Logger, metrics Metrics, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	timer := StartTimer(operation).
		WithLogger(logger).
		WithMetrics(metrics)

	result, err := fn(WithOperation(ctx, operation))
	timer.StopWithError(ctx, err)
	return result, err
}
