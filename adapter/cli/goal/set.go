package goal

import (
	"fmt"

	"github.com/felixgeelhaar/therapytrack/adapter/cli"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/commands"
	"github.com/spf13/cobra"
)

var (
	setDaily  int
	setWeekly int
	setOwner  string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the goals",
	Long: `Change the daily goal (30-720 minutes) and optionally the weekly goal
(210-5040 minutes). Clinicians can set goals for linked patients.

Examples:
  therapytrack goal set --daily 180
  therapytrack goal set --daily 120 --weekly 840
  therapytrack goal set --daily 90 --owner <patient-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.AssignGoalHandler == nil {
			return fmt.Errorf("goals require an initialized database")
		}
		if setDaily == 0 {
			return fmt.Errorf("--daily is required")
		}

		owner, err := app.OwnerOrSelf(setOwner)
		if err != nil {
			return fmt.Errorf("invalid owner ID: %w", err)
		}

		result, err := app.AssignGoalHandler.Handle(cmd.Context(), commands.AssignGoalCommand{
			ActorID:           app.CurrentUserID,
			OwnerID:           owner,
			DailyGoalMinutes:  setDaily,
			WeeklyGoalMinutes: setWeekly,
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Goals updated.")
		fmt.Fprintf(cmd.OutOrStdout(), "  Daily:  %d min\n", result.DailyGoalMinutes)
		fmt.Fprintf(cmd.OutOrStdout(), "  Weekly: %d min\n", result.WeeklyGoalMinutes)
		return nil
	},
}

func init() {
	setCmd.Flags().IntVar(&setDaily, "daily", 0, "daily goal in minutes")
	setCmd.Flags().IntVar(&setWeekly, "weekly", 0, "weekly goal in minutes (default keeps the current one)")
	setCmd.Flags().StringVar(&setOwner, "owner", "", "patient ID (clinicians only)")
}
