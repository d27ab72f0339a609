package mcp

import (
	"context"

	"github.com/felixgeelhaar/mcp-go"
)

type healthOutput struct {
	Status   string `json:"status"`
	UserID   string `json:"user_id"`
	Today    string `json:"today"`
	Timezone string `json:"timezone"`
}

func registerCoreTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("cli.health").
		Description("Check MCP wiring and report the current user's calendar day").
		Handler(func(ctx context.Context, _ struct{}) (*healthOutput, error) {
			return &healthOutput{
				Status:   "ok",
				UserID:   app.CurrentUserID.String(),
				Today:    app.Today().String(),
				Timezone: app.Location().String(),
			}, nil
		})

	return nil
}
