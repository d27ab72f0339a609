package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/cache"
	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/google/uuid"
)

// PatientListCacheKey is the cache key of a clinician's patient list.
func PatientListCacheKey(clinicianID uuid.UUID) string {
	return "patients:" + clinicianID.String()
}

// PatientCacheInvalidator drops a clinician's cached patient list when a
// patient is linked or when the clinician changes a patient's goal.
// Entries logged by patients are not tracked here; the list TTL bounds how
// stale this week's percentage can get.
type PatientCacheInvalidator struct {
	cache  cache.Cache
	logger *slog.Logger
}

// NewPatientCacheInvalidator creates the handler.
func NewPatientCacheInvalidator(c cache.Cache, logger *slog.Logger) *PatientCacheInvalidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &PatientCacheInvalidator{cache: c, logger: logger}
}

func (h *PatientCacheInvalidator) RoutingKeys() []string {
	return []string{domain.RoutingKeyPatientLinked, domain.RoutingKeyGoalAssigned}
}

func (h *PatientCacheInvalidator) Handle(ctx context.Context, env *eventbus.Envelope) error {
	var clinicianID uuid.UUID

	switch env.RoutingKey {
	case domain.RoutingKeyPatientLinked:
		var payload domain.PatientLinked
		if err := env.DecodePayload(&payload); err != nil {
			return err
		}
		clinicianID = payload.DoctorID
	case domain.RoutingKeyGoalAssigned:
		var payload domain.GoalAssigned
		if err := env.DecodePayload(&payload); err != nil {
			return err
		}
		if payload.SetByDoctorID == nil {
			return nil
		}
		clinicianID = *payload.SetByDoctorID
	default:
		return nil
	}

	if err := h.cache.Delete(ctx, PatientListCacheKey(clinicianID)); err != nil {
		return fmt.Errorf("invalidate patient list: %w", err)
	}
	h.logger.DebugContext(ctx, "patient list invalidated",
		"clinician_id", clinicianID,
		"routing_key", env.RoutingKey,
	)
	return nil
}
