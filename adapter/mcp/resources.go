package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterResources registers MCP resources that expose the current
// user's progress.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	app := deps.App

	srv.Resource("therapytrack://progress/week").
		Name("This Week").
		Description("Daily and weekly progress for the current week").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			week, err := weekProgress(ctx, app, dayInput{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, week)
		})

	srv.Resource("therapytrack://progress/month").
		Name("This Month").
		Description("Calendar of the current month banded against the daily goal").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			cal, err := monthCalendar(ctx, app, calendarInput{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, cal)
		})

	srv.Resource("therapytrack://progress/stats").
		Name("Adherence Stats").
		Description("Goal streaks and totals over the last year").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			s, err := stats(ctx, app, statsInput{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, s)
		})

	srv.Resource("therapytrack://goal").
		Name("Goals").
		Description("Current daily and weekly goals").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			goal, err := getGoal(ctx, app, goalGetInput{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, goal)
		})

	return nil
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}

	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
