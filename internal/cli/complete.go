package cli

import (
	"github.com/spf13/cobra"
)

var completeCmd = &cobra.Command{
	Use:   "complete [index]...",
	Short: "Complete one or more tasks by index",
	Long: `Marks tasks done by their displayed index on the current list.
Negative indices address from the end, -1 being the last task
(pass -- before negative indices).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runComplete,
}

func runComplete(cmd *cobra.Command, args []string) error {
	indices, err := parseIndices(args)
	if err != nil {
		return err
	}

	op, err := newOperator()
	if err != nil {
		return err
	}
	return op.completeTasks(indices)
}
