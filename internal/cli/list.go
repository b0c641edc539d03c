package cli

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the current tasks",
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolP("priority", "p", false, "Sort tasks by priority")
}

func runList(cmd *cobra.Command, args []string) error {
	byPriority, _ := cmd.Flags().GetBool("priority")

	op, err := newOperator()
	if err != nil {
		return err
	}
	return op.listIncomplete(verbose, byPriority)
}
