package cli

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/queries"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/spf13/cobra"
)

var (
	entriesDate  string
	entriesOwner string
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Show the sessions logged on a day",
	Long: `Show every session logged on one day with the day's progress.

Examples:
  therapytrack entries
  therapytrack entries --date 2024-06-08
  therapytrack entries --owner <patient-id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.GetDayEntriesHandler == nil {
			return errNotConfigured
		}

		owner, err := app.OwnerOrSelf(entriesOwner)
		if err != nil {
			return fmt.Errorf("invalid owner ID: %w", err)
		}
		date, err := parseDateFlag(entriesDate)
		if err != nil {
			return err
		}
		if date.IsZero() {
			date = app.Today()
		}

		day, err := app.GetDayEntriesHandler.Handle(cmd.Context(), queries.GetDayEntriesQuery{
			ViewerID: app.CurrentUserID,
			OwnerID:  owner,
			Date:     date,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\n  %s  %s of %s  %d%% (%s)\n", day.Date,
			formatMinutes(day.TotalMinutes), formatMinutes(day.DailyGoalMinutes), day.DisplayPercent, day.Band)
		fmt.Fprintln(out, strings.Repeat("-", 60))
		if len(day.Entries) == 0 {
			fmt.Fprintln(out, "  No sessions logged.")
		}
		for _, e := range day.Entries {
			line := fmt.Sprintf("  %s  %-8s", e.CreatedAt.In(app.Location()).Format("15:04"), formatMinutes(e.DurationMinutes))
			if e.Note != "" {
				line += "  " + e.Note
			}
			fmt.Fprintln(out, line)
		}
		if day.Loggable && day.EntryCount > 0 {
			fmt.Fprintf(out, "\n  %d of %d sessions used for this day.\n", day.EntryCount, domain.MaxEntriesPerDay)
		}
		return nil
	},
}

func init() {
	entriesCmd.Flags().StringVarP(&entriesDate, "date", "d", "", "day to show (YYYY-MM-DD, default today)")
	entriesCmd.Flags().StringVar(&entriesOwner, "owner", "", "patient ID (clinicians only)")
	rootCmd.AddCommand(entriesCmd)
}
