package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/therapytrack/adapter/cli"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/commands"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/queries"
)

type goalGetInput struct {
	OwnerID string `json:"owner_id,omitempty"`
}

type goalSetInput struct {
	OwnerID           string `json:"owner_id,omitempty"`
	DailyGoalMinutes  int    `json:"daily_goal_minutes" jsonschema:"required"`
	WeeklyGoalMinutes int    `json:"weekly_goal_minutes,omitempty"`
}

func registerGoalTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("goal.get").
		Description("Show the daily and weekly goals, creating the defaults on first use").
		Handler(func(ctx context.Context, input goalGetInput) (*queries.GoalDTO, error) {
			return getGoal(ctx, app, input)
		})

	srv.Tool("goal.set").
		Description("Set the daily goal (30-720 min) and optionally the weekly goal (210-5040 min)").
		Handler(func(ctx context.Context, input goalSetInput) (*commands.AssignGoalResult, error) {
			return setGoal(ctx, app, input)
		})

	return nil
}

func getGoal(ctx context.Context, app *cli.App, input goalGetInput) (*queries.GoalDTO, error) {
	if app == nil || app.GetGoalHandler == nil {
		return nil, errors.New("goals require database connection")
	}
	owner, err := parseOwner(input.OwnerID, app.CurrentUserID)
	if err != nil {
		return nil, err
	}
	return app.GetGoalHandler.Handle(ctx, queries.GetGoalQuery{
		ViewerID: app.CurrentUserID,
		OwnerID:  owner,
	})
}

func setGoal(ctx context.Context, app *cli.App, input goalSetInput) (*commands.AssignGoalResult, error) {
	if app == nil || app.AssignGoalHandler == nil {
		return nil, errors.New("goals require database connection")
	}
	owner, err := parseOwner(input.OwnerID, app.CurrentUserID)
	if err != nil {
		return nil, err
	}
	return app.AssignGoalHandler.Handle(ctx, commands.AssignGoalCommand{
		ActorID:           app.CurrentUserID,
		OwnerID:           owner,
		DailyGoalMinutes:  input.DailyGoalMinutes,
		WeeklyGoalMinutes: input.WeeklyGoalMinutes,
	})
}
