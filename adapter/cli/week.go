package cli

import (
	"fmt"

	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/queries"
	"github.com/spf13/cobra"
)

var (
	weekDate  string
	weekOwner string
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the Sunday to Saturday week",
	Long: `Show daily progress for a week and the total against the weekly goal.

Examples:
  therapytrack week
  therapytrack week --date 2024-06-03`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.GetWeekProgressHandler == nil {
			return errNotConfigured
		}

		owner, err := app.OwnerOrSelf(weekOwner)
		if err != nil {
			return fmt.Errorf("invalid owner ID: %w", err)
		}
		ref, err := parseDateFlag(weekDate)
		if err != nil {
			return err
		}

		week, err := app.GetWeekProgressHandler.Handle(cmd.Context(), queries.GetWeekProgressQuery{
			ViewerID:  app.CurrentUserID,
			OwnerID:   owner,
			Reference: ref,
		})
		if err != nil {
			return err
		}

		RenderWeek(cmd.OutOrStdout(), week)
		return nil
	},
}

func init() {
	weekCmd.Flags().StringVarP(&weekDate, "date", "d", "", "any day in the week (YYYY-MM-DD, default today)")
	weekCmd.Flags().StringVar(&weekOwner, "owner", "", "patient ID (clinicians only)")
	rootCmd.AddCommand(weekCmd)
}
