package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedDomain "github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/commands"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/queries"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/google/uuid"
)

// UserIDHeader carries the authenticated caller. Authentication itself
// happens in front of the API.
const UserIDHeader = "X-User-ID"

// TrackingHandler handles therapy tracking API requests.
type TrackingHandler struct {
	logEntry      *commands.LogEntryHandler
	assignGoal    *commands.AssignGoalHandler
	addPatient    *commands.AddPatientHandler
	getGoal       *queries.GetGoalHandler
	getCalendar   *queries.GetMonthCalendarHandler
	getWeek       *queries.GetWeekProgressHandler
	getStats      *queries.GetStatsHandler
	getDayEntries *queries.GetDayEntriesHandler
	listPatients  *queries.ListPatientsHandler
	policy        domain.BoundaryPolicy
	clock         sharedDomain.Clock
	logger        *slog.Logger
}

// TrackingHandlerConfig holds dependencies for the tracking handler.
type TrackingHandlerConfig struct {
	LogEntry      *commands.LogEntryHandler
	AssignGoal    *commands.AssignGoalHandler
	AddPatient    *commands.AddPatientHandler
	GetGoal       *queries.GetGoalHandler
	GetCalendar   *queries.GetMonthCalendarHandler
	GetWeek       *queries.GetWeekProgressHandler
	GetStats      *queries.GetStatsHandler
	GetDayEntries *queries.GetDayEntriesHandler
	ListPatients  *queries.ListPatientsHandler
	Policy        domain.BoundaryPolicy
	Clock         sharedDomain.Clock
	Logger        *slog.Logger
}

// NewTrackingHandler creates a new tracking handler.
func NewTrackingHandler(cfg TrackingHandlerConfig) *TrackingHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = sharedDomain.SystemClock{}
	}
	return &TrackingHandler{
		logEntry:      cfg.LogEntry,
		assignGoal:    cfg.AssignGoal,
		addPatient:    cfg.AddPatient,
		getGoal:       cfg.GetGoal,
		getCalendar:   cfg.GetCalendar,
		getWeek:       cfg.GetWeek,
		getStats:      cfg.GetStats,
		getDayEntries: cfg.GetDayEntries,
		listPatients:  cfg.ListPatients,
		policy:        cfg.Policy,
		clock:         cfg.Clock,
		logger:        cfg.Logger,
	}
}

type logEntryRequest struct {
	Date            string `json:"date"`
	DurationMinutes int    `json:"duration_minutes"`
	Note            string `json:"note"`
}

// LogEntry handles POST /api/v1/entries
func (h *TrackingHandler) LogEntry(w http.ResponseWriter, r *http.Request) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return
	}

	var req logEntryRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	date, apiErr := parseOptionalDate(req.Date, "date")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}

	result, err := h.logEntry.Handle(r.Context(), commands.LogEntryCommand{
		OwnerID:         viewer,
		Date:            date,
		DurationMinutes: req.DurationMinutes,
		Note:            req.Note,
	})
	if err != nil {
		h.fail(w, r, "failed to log entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// GetDayEntries handles GET /api/v1/owners/{ownerID}/entries
func (h *TrackingHandler) GetDayEntries(w http.ResponseWriter, r *http.Request) {
	viewer, owner, ok := h.viewerAndPath(w, r, "ownerID")
	if !ok {
		return
	}
	date, apiErr := parseOptionalDate(r.URL.Query().Get("date"), "date")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}
	if date.IsZero() {
		date = h.today()
	}

	result, err := h.getDayEntries.Handle(r.Context(), queries.GetDayEntriesQuery{
		ViewerID: viewer,
		OwnerID:  owner,
		Date:     date,
	})
	if err != nil {
		h.fail(w, r, "failed to get entries", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetGoal handles GET /api/v1/owners/{ownerID}/goal
func (h *TrackingHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	viewer, owner, ok := h.viewerAndPath(w, r, "ownerID")
	if !ok {
		return
	}

	result, err := h.getGoal.Handle(r.Context(), queries.GetGoalQuery{ViewerID: viewer, OwnerID: owner})
	if err != nil {
		h.fail(w, r, "failed to get goal", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type assignGoalRequest struct {
	DailyGoalMinutes  int `json:"daily_goal_minutes"`
	WeeklyGoalMinutes int `json:"weekly_goal_minutes"`
}

// AssignGoal handles PUT /api/v1/owners/{ownerID}/goal
func (h *TrackingHandler) AssignGoal(w http.ResponseWriter, r *http.Request) {
	viewer, owner, ok := h.viewerAndPath(w, r, "ownerID")
	if !ok {
		return
	}

	var req assignGoalRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.assignGoal.Handle(r.Context(), commands.AssignGoalCommand{
		ActorID:           viewer,
		OwnerID:           owner,
		DailyGoalMinutes:  req.DailyGoalMinutes,
		WeeklyGoalMinutes: req.WeeklyGoalMinutes,
	})
	if err != nil {
		h.fail(w, r, "failed to assign goal", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetMonthCalendar handles GET /api/v1/owners/{ownerID}/calendar
func (h *TrackingHandler) GetMonthCalendar(w http.ResponseWriter, r *http.Request) {
	viewer, owner, ok := h.viewerAndPath(w, r, "ownerID")
	if !ok {
		return
	}

	year, month := h.today().Year, h.today().Month
	if param := r.URL.Query().Get("month"); param != "" {
		t, err := time.Parse("2006-01", param)
		if err != nil {
			writeError(w, badRequest("month must be formatted YYYY-MM"))
			return
		}
		year, month = t.Year(), t.Month()
	}

	result, err := h.getCalendar.Handle(r.Context(), queries.GetMonthCalendarQuery{
		ViewerID: viewer,
		OwnerID:  owner,
		Year:     year,
		Month:    month,
	})
	if err != nil {
		h.fail(w, r, "failed to build calendar", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetWeekProgress handles GET /api/v1/owners/{ownerID}/week
func (h *TrackingHandler) GetWeekProgress(w http.ResponseWriter, r *http.Request) {
	viewer, owner, ok := h.viewerAndPath(w, r, "ownerID")
	if !ok {
		return
	}
	ref, apiErr := parseOptionalDate(r.URL.Query().Get("date"), "date")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}

	result, err := h.getWeek.Handle(r.Context(), queries.GetWeekProgressQuery{
		ViewerID:  viewer,
		OwnerID:   owner,
		Reference: ref,
	})
	if err != nil {
		h.fail(w, r, "failed to build week", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetStats handles GET /api/v1/owners/{ownerID}/stats
func (h *TrackingHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	viewer, owner, ok := h.viewerAndPath(w, r, "ownerID")
	if !ok {
		return
	}
	from, apiErr := parseOptionalDate(r.URL.Query().Get("from"), "from")
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}

	result, err := h.getStats.Handle(r.Context(), queries.GetStatsQuery{
		ViewerID: viewer,
		OwnerID:  owner,
		From:     from,
	})
	if err != nil {
		h.fail(w, r, "failed to compute stats", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ListPatients handles GET /api/v1/clinicians/{clinicianID}/patients
func (h *TrackingHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	viewer, clinician, ok := h.viewerAndPath(w, r, "clinicianID")
	if !ok {
		return
	}
	if viewer != clinician {
		writeError(w, ErrForbidden)
		return
	}

	result, err := h.listPatients.Handle(r.Context(), queries.ListPatientsQuery{ClinicianID: clinician})
	if err != nil {
		h.fail(w, r, "failed to list patients", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type addPatientRequest struct {
	PatientID string `json:"patient_id"`
}

// AddPatient handles POST /api/v1/clinicians/{clinicianID}/patients
func (h *TrackingHandler) AddPatient(w http.ResponseWriter, r *http.Request) {
	viewer, clinician, ok := h.viewerAndPath(w, r, "clinicianID")
	if !ok {
		return
	}
	if viewer != clinician {
		writeError(w, ErrForbidden)
		return
	}

	var req addPatientRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	patient, err := uuid.Parse(req.PatientID)
	if err != nil {
		writeError(w, badRequest("patient_id must be a UUID"))
		return
	}

	if err := h.addPatient.Handle(r.Context(), commands.AddPatientCommand{
		ClinicianID: clinician,
		PatientID:   patient,
	}); err != nil {
		h.fail(w, r, "failed to add patient", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TrackingHandler) today() domain.LocalDate {
	return h.policy.Today(h.clock.Now())
}

// viewer reads the caller from the X-User-ID header.
func (h *TrackingHandler) viewer(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.Header.Get(UserIDHeader))
	if err != nil || id == uuid.Nil {
		writeError(w, ErrUnauthenticated)
		return uuid.Nil, false
	}
	return id, true
}

func (h *TrackingHandler) viewerAndPath(w http.ResponseWriter, r *http.Request, key string) (uuid.UUID, uuid.UUID, bool) {
	viewer, ok := h.viewer(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(r.PathValue(key))
	if err != nil {
		writeError(w, badRequest("%s must be a UUID", key))
		return uuid.Nil, uuid.Nil, false
	}
	return viewer, id, true
}

func (h *TrackingHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	apiErr := toAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), msg, "error", err)
	} else {
		h.logger.DebugContext(r.Context(), msg, "error", err)
	}
	writeError(w, apiErr)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) *APIError {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

func parseOptionalDate(s, field string) (domain.LocalDate, *APIError) {
	if s == "" {
		return domain.LocalDate{}, nil
	}
	d, err := domain.ParseLocalDate(s)
	if err != nil {
		return domain.LocalDate{}, badRequest("%s: %v", field, err)
	}
	return d, nil
}
