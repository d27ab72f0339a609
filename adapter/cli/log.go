package cli

import (
	"fmt"
	"strconv"

	"github.com/felixgeelhaar/therapytrack/internal/tracking/application/commands"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/spf13/cobra"
)

var (
	logDate string
	logNote string
)

var logCmd = &cobra.Command{
	Use:   "log <minutes>",
	Short: "Log a therapy session",
	Long: `Log a therapy session for today or one of the previous days.

Sessions last 30 to 1440 minutes and at most 10 can be logged per day.
Dates are taken from your local calendar and may go back 5 days.

Examples:
  therapytrack log 45
  therapytrack log 60 --note "Balance exercises"
  therapytrack log 90 --date 2024-06-08`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.LogEntryHandler == nil {
			return errNotConfigured
		}

		minutes, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("minutes must be a whole number, got %q", args[0])
		}
		date, err := parseDateFlag(logDate)
		if err != nil {
			return err
		}

		result, err := app.LogEntryHandler.Handle(cmd.Context(), commands.LogEntryCommand{
			OwnerID:         app.CurrentUserID,
			Date:            date,
			DurationMinutes: minutes,
			Note:            logNote,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Logged %s on %s.\n", formatMinutes(minutes), result.Date)
		fmt.Fprintf(out, "  Day total: %s of %s (%d sessions)\n",
			formatMinutes(result.DayTotalMinutes), formatMinutes(result.DailyGoalMinutes), result.DayEntryCount)
		if result.GoalAchieved {
			fmt.Fprintln(out, "  Daily goal reached. Well done!")
		}
		return nil
	},
}

func parseDateFlag(value string) (domain.LocalDate, error) {
	if value == "" {
		return domain.LocalDate{}, nil
	}
	return domain.ParseLocalDate(value)
}

func init() {
	logCmd.Flags().StringVarP(&logDate, "date", "d", "", "session date (YYYY-MM-DD, default today)")
	logCmd.Flags().StringVarP(&logNote, "note", "n", "", "optional note")
	rootCmd.AddCommand(logCmd)
}
