package cli

import (
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View recent history entries",
	Long: `Prints the five most recent history entries, newest first.
--all prints the whole history in file order.`,
	RunE: runLog,
}

func init() {
	logCmd.Flags().Bool("all", false, "Show the entire history")
}

func runLog(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")

	op, err := newOperator()
	if err != nil {
		return err
	}
	return op.viewLog(all)
}
