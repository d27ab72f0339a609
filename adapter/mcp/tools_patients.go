package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/therapytrack/adapter/cli"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/commands"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/queries"
)

type patientAddInput struct {
	PatientID string `json:"patient_id" jsonschema:"required"`
}

func registerPatientTools(srv *mcp.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("patients.list").
		Description("List linked patients with this week's progress").
		Handler(func(ctx context.Context, _ struct{}) (*queries.PatientListDTO, error) {
			return listPatients(ctx, app)
		})

	srv.Tool("patients.add").
		Description("Link a patient to the current clinician").
		Handler(func(ctx context.Context, input patientAddInput) (map[string]any, error) {
			return addPatient(ctx, app, input)
		})

	return nil
}

func listPatients(ctx context.Context, app *cli.App) (*queries.PatientListDTO, error) {
	if app == nil || app.ListPatientsHandler == nil {
		return nil, errors.New("patient listing requires database connection")
	}
	return app.ListPatientsHandler.Handle(ctx, queries.ListPatientsQuery{ClinicianID: app.CurrentUserID})
}

func addPatient(ctx context.Context, app *cli.App, input patientAddInput) (map[string]any, error) {
	if app == nil || app.AddPatientHandler == nil {
		return nil, errors.New("linking patients requires database connection")
	}
	patientID, err := parseUUID(input.PatientID)
	if err != nil {
		return nil, err
	}
	if err := app.AddPatientHandler.Handle(ctx, commands.AddPatientCommand{
		ClinicianID: app.CurrentUserID,
		PatientID:   patientID,
	}); err != nil {
		return nil, err
	}
	return map[string]any{
		"patient_id": patientID.String(),
		"linked":     true,
	}, nil
}
