package commands

import (
	"context"
	"log/slog"

	sharedDomain "github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/cache"
	"github.com/felixgeelhaar/therapytrack/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/services"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/google/uuid"
)

// AddPatientCommand links a patient to the acting clinician.
type AddPatientCommand struct {
	ClinicianID uuid.UUID
	PatientID   uuid.UUID
}

// AddPatientHandler handles AddPatientCommand.
type AddPatientHandler struct {
	careTeam  domain.CareTeamRepository
	cache     cache.Cache
	publisher eventbus.Publisher
	clock     sharedDomain.Clock
	logger    *slog.Logger
}

// NewAddPatientHandler creates a new AddPatientHandler.
func NewAddPatientHandler(
	careTeam domain.CareTeamRepository,
	c cache.Cache,
	publisher eventbus.Publisher,
	clock sharedDomain.Clock,
	logger *slog.Logger,
) *AddPatientHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = eventbus.NewNoopPublisher(logger)
	}
	return &AddPatientHandler{
		careTeam:  careTeam,
		cache:     c,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// Handle executes the AddPatientCommand.
func (h *AddPatientHandler) Handle(ctx context.Context, cmd AddPatientCommand) error {
	link, err := domain.NewCareLink(cmd.ClinicianID, cmd.PatientID, h.clock.Now())
	if err != nil {
		return err
	}
	if err := h.careTeam.Link(ctx, link); err != nil {
		return err
	}

	// The list is dropped here as well as by the event handler so the
	// clinician sees the patient even when the broker is down.
	if err := h.cache.Delete(ctx, services.PatientListCacheKey(cmd.ClinicianID)); err != nil {
		h.logger.WarnContext(ctx, "failed to invalidate patient list",
			"clinician_id", cmd.ClinicianID,
			"error", err,
		)
	}

	event := domain.NewPatientLinkedEvent(link)
	if err := eventbus.PublishEvents(ctx, h.publisher, cmd.ClinicianID, []sharedDomain.DomainEvent{event}); err != nil {
		h.logger.WarnContext(ctx, "failed to publish patient linked event",
			"clinician_id", cmd.ClinicianID,
			"error", err,
		)
	}

	h.logger.InfoContext(ctx, "patient linked",
		"clinician_id", cmd.ClinicianID,
		"patient_id", cmd.PatientID,
	)
	return nil
}
