package cli

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/queries"
	"github.com/spf13/cobra"
)

var (
	calendarMonth string
	calendarOwner string
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show a month of progress",
	Long: `Show a month calendar where every day is banded by how much of the
daily goal was reached.

Examples:
  therapytrack calendar
  therapytrack calendar --month 2024-06`,
	Aliases: []string{"cal"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.GetMonthCalendarHandler == nil {
			return errNotConfigured
		}

		owner, err := app.OwnerOrSelf(calendarOwner)
		if err != nil {
			return fmt.Errorf("invalid owner ID: %w", err)
		}

		today := app.Today()
		year, month := today.Year, today.Month
		if calendarMonth != "" {
			t, err := time.Parse("2006-01", calendarMonth)
			if err != nil {
				return fmt.Errorf("invalid month %q: expected YYYY-MM", calendarMonth)
			}
			year, month = t.Year(), t.Month()
		}

		cal, err := app.GetMonthCalendarHandler.Handle(cmd.Context(), queries.GetMonthCalendarQuery{
			ViewerID: app.CurrentUserID,
			OwnerID:  owner,
			Year:     year,
			Month:    month,
		})
		if err != nil {
			return err
		}

		RenderMonth(cmd.OutOrStdout(), cal)
		return nil
	},
}

func init() {
	calendarCmd.Flags().StringVarP(&calendarMonth, "month", "m", "", "month to show (YYYY-MM, default current)")
	calendarCmd.Flags().StringVar(&calendarOwner, "owner", "", "patient ID (clinicians only)")
	rootCmd.AddCommand(calendarCmd)
}
