package queries

import (
	"context"
	"log/slog"
	"time"

	sharedDomain "github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/cache"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/services"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain/progress"
	"github.com/felixgeelhaar/therapytrack/pkg/observability"
	"github.com/google/uuid"
)

// DefaultPatientListTTL is how long a clinician's patient list is served
// from cache.
const DefaultPatientListTTL = 5 * time.Minute

// ListPatientsQuery lists the acting clinician's patients.
type ListPatientsQuery struct {
	ClinicianID uuid.UUID
}

// ListPatientsHandler handles ListPatientsQuery. Results are cached per
// clinician; cache failures degrade to a fresh read.
type ListPatientsHandler struct {
	careTeam domain.CareTeamRepository
	entries  domain.LogEntryRepository
	cache    cache.Cache
	ttl      time.Duration
	policy   domain.BoundaryPolicy
	clock    sharedDomain.Clock
	metrics  observability.Metrics
	logger   *slog.Logger
}

// NewListPatientsHandler creates a new ListPatientsHandler. A non-positive
// ttl selects DefaultPatientListTTL.
func NewListPatientsHandler(
	careTeam domain.CareTeamRepository,
	entries domain.LogEntryRepository,
	c cache.Cache,
	ttl time.Duration,
	policy domain.BoundaryPolicy,
	clock sharedDomain.Clock,
	metrics observability.Metrics,
	logger *slog.Logger,
) *ListPatientsHandler {
	if ttl <= 0 {
		ttl = DefaultPatientListTTL
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ListPatientsHandler{
		careTeam: careTeam,
		entries:  entries,
		cache:    c,
		ttl:      ttl,
		policy:   policy,
		clock:    clock,
		metrics:  metrics,
		logger:   logger,
	}
}

// Handle executes the ListPatientsQuery.
func (h *ListPatientsHandler) Handle(ctx context.Context, query ListPatientsQuery) (*PatientListDTO, error) {
	if query.ClinicianID == uuid.Nil {
		return nil, domain.ErrEmptyOwner
	}

	now := h.clock.Now()
	today := h.policy.Today(now)
	weekStart := progress.WeekStart(today)
	key := services.PatientListCacheKey(query.ClinicianID)

	var cached PatientListDTO
	found, err := cache.GetJSON(ctx, h.cache, key, h.ttl, &cached)
	if err != nil {
		h.logger.WarnContext(ctx, "patient list cache read failed", "clinician_id", query.ClinicianID, "error", err)
	}
	// A list cached last week reports the wrong week's progress.
	if found && cached.WeekStart == weekStart {
		h.metrics.Counter(observability.MetricPatientCacheHits, 1)
		return &cached, nil
	}
	h.metrics.Counter(observability.MetricPatientCacheMisses, 1)

	list, err := observability.TimeOperationResult(ctx, h.logger, h.metrics, "list_patients", func(ctx context.Context) (*PatientListDTO, error) {
		return h.build(ctx, query.ClinicianID, today, now)
	})
	if err != nil {
		return nil, err
	}

	if err := cache.PutJSON(ctx, h.cache, key, list); err != nil {
		h.logger.WarnContext(ctx, "patient list cache write failed", "clinician_id", query.ClinicianID, "error", err)
	}
	return list, nil
}

func (h *ListPatientsHandler) build(ctx context.Context, clinicianID uuid.UUID, today domain.LocalDate, now time.Time) (*PatientListDTO, error) {
	summaries, err := h.careTeam.ListPatients(ctx, clinicianID)
	if err != nil {
		return nil, err
	}

	weekStart := progress.WeekStart(today)
	list := &PatientListDTO{
		ClinicianID: clinicianID,
		WeekStart:   weekStart,
		GeneratedAt: now,
		Patients:    make([]PatientDTO, 0, len(summaries)),
	}
	for _, summary := range summaries {
		aggregates, err := loadAggregates(ctx, h.entries, summary.PatientID, weekStart, weekStart.AddDays(progress.DaysPerWeek-1))
		if err != nil {
			return nil, err
		}
		week, err := progress.BuildWeek(today, today, aggregates, progress.Targets{
			DailyMinutes:  summary.DailyGoalMinutes,
			WeeklyMinutes: summary.WeeklyGoalMinutes,
		})
		if err != nil {
			return nil, err
		}
		list.Patients = append(list.Patients, PatientDTO{
			PatientSummary:       summary,
			WeeklyTotalMinutes:   week.WeeklyTotalMinutes,
			WeeklyPercentage:     week.WeeklyPercentage,
			WeeklyDisplayPercent: week.WeeklyDisplayPercent,
			DaysGoalMet:          week.DaysGoalMet,
		})
	}
	return list, nil
}
