package goal

import (
	"fmt"

	"github.com/felixgeelhaar/therapytrack/adapter/cli"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/queries"
	"github.com/spf13/cobra"
)

var getOwner string

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the current goals",
	Long: `Show the daily and weekly goals. A default goal of 4 hours a day and
28 hours a week is created on first use.

Examples:
  therapytrack goal get
  therapytrack goal get --owner <patient-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetGoalHandler == nil {
			return fmt.Errorf("goals require an initialized database")
		}

		owner, err := app.OwnerOrSelf(getOwner)
		if err != nil {
			return fmt.Errorf("invalid owner ID: %w", err)
		}

		goal, err := app.GetGoalHandler.Handle(cmd.Context(), queries.GetGoalQuery{
			ViewerID: app.CurrentUserID,
			OwnerID:  owner,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Daily goal:  %d min\n", goal.DailyGoalMinutes)
		fmt.Fprintf(out, "Weekly goal: %d min\n", goal.WeeklyGoalMinutes)
		if goal.SetByDoctorID != nil {
			fmt.Fprintf(out, "Set by clinician %s\n", goal.SetByDoctorID.String()[:8])
		}
		return nil
	},
}

func init() {
	getCmd.Flags().StringVar(&getOwner, "owner", "", "patient ID (clinicians only)")
}
