package cli

import (
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [index]...",
	Short: "Delete one or more tasks by index",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	indices, err := parseIndices(args)
	if err != nil {
		return err
	}

	op, err := newOperator()
	if err != nil {
		return err
	}
	return op.deleteTasks(indices)
}
