package cli

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/queries"
	"github.com/spf13/cobra"
)

var (
	statsFrom  string
	statsOwner string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show streaks and adherence statistics",
	Long: `Display adherence statistics including:
- Current and longest goal streaks
- Days the daily goal was met
- Total time and best day

Examples:
  therapytrack stats
  therapytrack stats --from 2024-01-01`,
	Aliases: []string{"streak"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.GetStatsHandler == nil {
			return errNotConfigured
		}

		owner, err := app.OwnerOrSelf(statsOwner)
		if err != nil {
			return fmt.Errorf("invalid owner ID: %w", err)
		}
		from, err := parseDateFlag(statsFrom)
		if err != nil {
			return err
		}

		stats, err := app.GetStatsHandler.Handle(cmd.Context(), queries.GetStatsQuery{
			ViewerID: app.CurrentUserID,
			OwnerID:  owner,
			From:     from,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\n  Therapy Stats (%s to %s)\n", stats.From, stats.To)
		fmt.Fprintln(out, strings.Repeat("=", 60))
		fmt.Fprintf(out, "    Current streak: %d days\n", stats.CurrentStreak)
		fmt.Fprintf(out, "    Longest streak: %d days\n", stats.LongestStreak)
		fmt.Fprintf(out, "    Goal met: %d of %d active days (goal %s)\n",
			stats.GoalMetDays, stats.ActiveDays, formatMinutes(stats.DailyGoalMinutes))
		fmt.Fprintf(out, "    Total time: %s\n", formatMinutes(stats.TotalMinutes))
		if stats.BestDay != nil {
			fmt.Fprintf(out, "    Best day: %s (%s)\n", stats.BestDay.Date, formatMinutes(stats.BestDay.TotalMinutes))
		}
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsFrom, "from", "", "first day to include (YYYY-MM-DD, default one year back)")
	statsCmd.Flags().StringVar(&statsOwner, "owner", "", "patient ID (clinicians only)")
	rootCmd.AddCommand(statsCmd)
}
