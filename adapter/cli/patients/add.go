package patients

import (
	"fmt"

	"github.com/felixgeelhaar/therapytrack/adapter/cli"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <patient-id>",
	Short: "Link a patient to your care team",
	Long: `Link a patient so you can follow their progress and set their goals.

Examples:
  therapytrack patients add 3f2c9a1e-8d4b-4c6f-9e2a-7b1d5c8e0f3a`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.AddPatientHandler == nil {
			return fmt.Errorf("linking patients requires an initialized database")
		}

		patientID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid patient ID: %w", err)
		}

		if err := app.AddPatientHandler.Handle(cmd.Context(), commands.AddPatientCommand{
			ClinicianID: app.CurrentUserID,
			PatientID:   patientID,
		}); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Patient linked.")
		return nil
	},
}
