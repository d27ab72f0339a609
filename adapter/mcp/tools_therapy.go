package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/therapytrack/adapter/cli"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/commands"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/queries"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain/progress"
)

type logInput struct {
	DurationMinutes int    `json:"duration_minutes" jsonschema:"required"`
	Date            string `json:"date,omitempty"`
	Note            string `json:"note,omitempty"`
}

type dayInput struct {
	OwnerID string `json:"owner_id,omitempty"`
	Date    string `json:"date,omitempty"`
}

type calendarInput struct {
	OwnerID string `json:"owner_id,omitempty"`
	Month   string `json:"month,omitempty"`
}

type statsInput struct {
	OwnerID string `json:"owner_id,omitempty"`
	From    string `json:"from,omitempty"`
}

func registerTherapyTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("therapy.log").
		Description("Log a therapy session of 30-1440 minutes for today or up to 5 days back").
		Handler(func(ctx context.Context, input logInput) (*commands.LogEntryResult, error) {
			return logSession(ctx, app, input)
		})

	srv.Tool("therapy.entries").
		Description("List the sessions logged on one day with the day's progress").
		Handler(func(ctx context.Context, input dayInput) (*queries.DayEntriesDTO, error) {
			return dayEntries(ctx, app, input)
		})

	srv.Tool("therapy.calendar").
		Description("Month calendar with every day banded against the daily goal").
		Handler(func(ctx context.Context, input calendarInput) (*progress.MonthCalendar, error) {
			return monthCalendar(ctx, app, input)
		})

	srv.Tool("therapy.week").
		Description("Sunday to Saturday progress against the daily and weekly goals").
		Handler(func(ctx context.Context, input dayInput) (*progress.WeekWindow, error) {
			return weekProgress(ctx, app, input)
		})

	srv.Tool("therapy.stats").
		Description("Goal streaks, active days and best day").
		Handler(func(ctx context.Context, input statsInput) (*queries.StatsDTO, error) {
			return stats(ctx, app, input)
		})

	return nil
}

func logSession(ctx context.Context, app *cli.App, input logInput) (*commands.LogEntryResult, error) {
	if app == nil || app.LogEntryHandler == nil {
		return nil, errors.New("logging requires database connection")
	}
	date, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	return app.LogEntryHandler.Handle(ctx, commands.LogEntryCommand{
		OwnerID:         app.CurrentUserID,
		Date:            date,
		DurationMinutes: input.DurationMinutes,
		Note:            input.Note,
	})
}

func dayEntries(ctx context.Context, app *cli.App, input dayInput) (*queries.DayEntriesDTO, error) {
	if app == nil || app.GetDayEntriesHandler == nil {
		return nil, errors.New("entries require database connection")
	}
	owner, err := parseOwner(input.OwnerID, app.CurrentUserID)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = app.Today()
	}
	return app.GetDayEntriesHandler.Handle(ctx, queries.GetDayEntriesQuery{
		ViewerID: app.CurrentUserID,
		OwnerID:  owner,
		Date:     date,
	})
}

func monthCalendar(ctx context.Context, app *cli.App, input calendarInput) (*progress.MonthCalendar, error) {
	if app == nil || app.GetMonthCalendarHandler == nil {
		return nil, errors.New("calendar requires database connection")
	}
	owner, err := parseOwner(input.OwnerID, app.CurrentUserID)
	if err != nil {
		return nil, err
	}
	year, month, err := parseMonth(input.Month, app.Today())
	if err != nil {
		return nil, err
	}
	return app.GetMonthCalendarHandler.Handle(ctx, queries.GetMonthCalendarQuery{
		ViewerID: app.CurrentUserID,
		OwnerID:  owner,
		Year:     year,
		Month:    month,
	})
}

func weekProgress(ctx context.Context, app *cli.App, input dayInput) (*progress.WeekWindow, error) {
	if app == nil || app.GetWeekProgressHandler == nil {
		return nil, errors.New("week view requires database connection")
	}
	owner, err := parseOwner(input.OwnerID, app.CurrentUserID)
	if err != nil {
		return nil, err
	}
	ref, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}
	return app.GetWeekProgressHandler.Handle(ctx, queries.GetWeekProgressQuery{
		ViewerID:  app.CurrentUserID,
		OwnerID:   owner,
		Reference: ref,
	})
}

func stats(ctx context.Context, app *cli.App, input statsInput) (*queries.StatsDTO, error) {
	if app == nil || app.GetStatsHandler == nil {
		return nil, errors.New("stats require database connection")
	}
	owner, err := parseOwner(input.OwnerID, app.CurrentUserID)
	if err != nil {
		return nil, err
	}
	from, err := parseDate(input.From)
	if err != nil {
		return nil, err
	}
	return app.GetStatsHandler.Handle(ctx, queries.GetStatsQuery{
		ViewerID: app.CurrentUserID,
		OwnerID:  owner,
		From:     from,
	})
}
