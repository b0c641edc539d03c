package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/mtd/internal/task"
)

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a new task to the current list",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().IntP("priority", "p", 0, "Priority between 1 and 4")
}

func runAdd(cmd *cobra.Command, args []string) error {
	value, _ := cmd.Flags().GetInt("priority")

	priority := task.Priority(value)
	if !priority.Valid() {
		return fmt.Errorf("priority must be between %d and %d", task.PriorityMin, task.PriorityMax)
	}

	op, err := newOperator()
	if err != nil {
		return err
	}
	return op.addTask(args[0], priority)
}
