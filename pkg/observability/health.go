package observability

import (
	"context"
	"sync"
	"time"
)

// HealthStatus is the state of one dependency or of the whole service.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// severity orders statuses so the worst one wins.
func (s HealthStatus) severity() int {
	switch s {
	case HealthStatusUnhealthy:
		return 2
	case HealthStatusDegraded:
		return 1
	default:
		return 0
	}
}

// HealthCheckResult is one dependency's answer.
type HealthCheckResult struct {
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
	DurationMS int64        `json:"duration_ms"`
}

// HealthChecker checks one dependency.
type HealthChecker func(ctx context.Context) HealthCheckResult

// DefaultCheckTimeout bounds each registered check.
const DefaultCheckTimeout = 2 * time.Second

// HealthRegistry runs the named dependency checks behind /health.
type HealthRegistry struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
	timeout  time.Duration
}

func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{
		checkers: make(map[string]HealthChecker),
		timeout:  DefaultCheckTimeout,
	}
}

// Register adds or replaces the checker for a dependency.
func (r *HealthRegistry) Register(name string, checker HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// Check runs every checker concurrently.
func (r *HealthRegistry) Check(ctx context.Context) map[string]HealthCheckResult {
	r.mu.RLock()
	checkers := make(map[string]HealthChecker, len(r.checkers))
	for name, c := range r.checkers {
		checkers[name] = c
	}
	r.mu.RUnlock()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]HealthCheckResult, len(checkers))
	)
	for name, checker := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, r.timeout)
			defer cancel()

			start := time.Now()
			result := checker(checkCtx)
			result.DurationMS = time.Since(start).Milliseconds()

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}()
	}
	wg.Wait()
	return results
}

// OverallHealth is the /health response body.
type OverallHealth struct {
	Status    HealthStatus                 `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Checks    map[string]HealthCheckResult `json:"checks"`
}

// GetOverallHealth runs all checks and reports the worst status among them.
func (r *HealthRegistry) GetOverallHealth(ctx context.Context) OverallHealth {
	checks := r.Check(ctx)
	status := HealthStatusHealthy
	for _, result := range checks {
		if result.Status.severity() > status.severity() {
			status = result.Status
		}
	}
	return OverallHealth{Status: status, Timestamp: time.Now().UTC(), Checks: checks}
}

// PingChecker adapts a ping function. A failed ping reports failStatus:
// unhealthy for the database, degraded for the cache and the broker that
// therapytrack can run without.
func PingChecker(component string, failStatus HealthStatus, ping func(ctx context.Context) error) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		if err := ping(ctx); err != nil {
			return HealthCheckResult{Status: failStatus, Message: component + ": " + err.Error()}
		}
		return HealthCheckResult{Status: HealthStatusHealthy}
	}
}
