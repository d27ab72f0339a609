package patients

import (
	"github.com/spf13/cobra"
)

// Cmd is the patients command group
var Cmd = &cobra.Command{
	Use:   "patients",
	Short: "Manage a clinician's patients",
	Long:  `Link patients to your care team and review their progress this week.`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(addCmd)
}
