package mcp

import (
	"github.com/felixgeelhaar/therapytrack/adapter/cli"
	"github.com/felixgeelhaar/therapytrack/internal/app"
	"github.com/google/uuid"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
func NewCLIApp(container *app.Container, currentUser uuid.UUID) *cli.App {
	cliApp := cli.NewApp(
		container.LogEntryHandler,
		container.AssignGoalHandler,
		container.AddPatientHandler,
		container.GetGoalHandler,
		container.GetMonthCalendarHandler,
		container.GetWeekProgressHandler,
		container.GetStatsHandler,
		container.GetDayEntriesHandler,
		container.ListPatientsHandler,
		container.Policy,
		container.Clock,
	)

	cliApp.SetCurrentUserID(currentUser)

	return cliApp
}
