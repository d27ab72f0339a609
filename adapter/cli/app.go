package cli

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/therapytrack/internal/shared/domain"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/commands"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/queries"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	// Command Handlers
	LogEntryHandler   *commands.LogEntryHandler
	AssignGoalHandler *commands.AssignGoalHandler
	AddPatientHandler *commands.AddPatientHandler

	// Query Handlers
	GetGoalHandler          *queries.GetGoalHandler
	GetMonthCalendarHandler *queries.GetMonthCalendarHandler
	GetWeekProgressHandler  *queries.GetWeekProgressHandler
	GetStatsHandler         *queries.GetStatsHandler
	GetDayEntriesHandler    *queries.GetDayEntriesHandler
	ListPatientsHandler     *queries.ListPatientsHandler

	// Calendar day resolution
	Policy domain.BoundaryPolicy
	Clock  sharedDomain.Clock

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	logEntryHandler *commands.LogEntryHandler,
	assignGoalHandler *commands.AssignGoalHandler,
	addPatientHandler *commands.AddPatientHandler,
	getGoalHandler *queries.GetGoalHandler,
	getMonthCalendarHandler *queries.GetMonthCalendarHandler,
	getWeekProgressHandler *queries.GetWeekProgressHandler,
	getStatsHandler *queries.GetStatsHandler,
	getDayEntriesHandler *queries.GetDayEntriesHandler,
	listPatientsHandler *queries.ListPatientsHandler,
	policy domain.BoundaryPolicy,
	clock sharedDomain.Clock,
) *App {
	if clock == nil {
		clock = sharedDomain.SystemClock{}
	}
	return &App{
		LogEntryHandler:         logEntryHandler,
		AssignGoalHandler:       assignGoalHandler,
		AddPatientHandler:       addPatientHandler,
		GetGoalHandler:          getGoalHandler,
		GetMonthCalendarHandler: getMonthCalendarHandler,
		GetWeekProgressHandler:  getWeekProgressHandler,
		GetStatsHandler:         getStatsHandler,
		GetDayEntriesHandler:    getDayEntriesHandler,
		ListPatientsHandler:     listPatientsHandler,
		Policy:                  policy,
		Clock:                   clock,
		CurrentUserID:           uuid.Nil,
	}
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

// Today returns the current user's calendar day.
func (a *App) Today() domain.LocalDate {
	if a.Clock == nil {
		return a.Policy.Today(time.Now())
	}
	return a.Policy.Today(a.Clock.Now())
}

// Location returns the zone calendar days are read in.
func (a *App) Location() *time.Location {
	if a.Policy.Location == nil {
		return time.UTC
	}
	return a.Policy.Location
}

// OwnerOrSelf parses an --owner flag value, defaulting to the current user.
func (a *App) OwnerOrSelf(value string) (uuid.UUID, error) {
	if value == "" {
		return a.CurrentUserID, nil
	}
	return uuid.Parse(value)
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
