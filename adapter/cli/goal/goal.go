package goal

import (
	"github.com/spf13/cobra"
)

// Cmd is the goal command group
var Cmd = &cobra.Command{
	Use:   "goal",
	Short: "Show or change daily and weekly goals",
	Long:  `Show the current therapy goals, or set them for yourself or a linked patient.`,
}

func init() {
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(setCmd)
}
