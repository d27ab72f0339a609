package patients

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/therapytrack/adapter/cli"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/queries"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List linked patients with this week's progress",
	Long: `List every patient linked to you with their goals, last session and
progress toward the weekly goal.

Examples:
  therapytrack patients list`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ListPatientsHandler == nil {
			return fmt.Errorf("patient listing requires an initialized database")
		}

		list, err := app.ListPatientsHandler.Handle(cmd.Context(), queries.ListPatientsQuery{
			ClinicianID: app.CurrentUserID,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(list.Patients) == 0 {
			fmt.Fprintln(out, "No patients linked yet. Add one with 'therapytrack patients add <patient-id>'.")
			return nil
		}

		fmt.Fprintf(out, "\n  Patients (week of %s)\n", list.WeekStart)
		fmt.Fprintln(out, strings.Repeat("-", 72))
		fmt.Fprintf(out, "  %-36s  %6s  %6s  %5s  %s\n", "PATIENT", "DAILY", "WEEK", "MET", "LAST SESSION")
		for _, p := range list.Patients {
			last := "never"
			if p.LastEntryDate != nil {
				last = p.LastEntryDate.String()
			}
			fmt.Fprintf(out, "  %-36s  %6d  %5d%%  %5d  %s\n",
				p.PatientID, p.DailyGoalMinutes, p.WeeklyDisplayPercent, p.DaysGoalMet, last)
		}
		return nil
	},
}
