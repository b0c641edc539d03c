package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/user/mtd/internal/task"
)

var priorityCmd = &cobra.Command{
	Use:   "priority [index] [value]",
	Short: "Update a task's priority by index",
	Long: `Sets the priority of the task at the given displayed index.
Valid priorities are 1 (lowest) through 4 (highest); 0 clears it.`,
	Args: cobra.ExactArgs(2),
	RunE: runPriority,
}

func runPriority(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index %q", args[0])
	}

	value, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid priority %q", args[1])
	}
	priority := task.Priority(value)
	if !priority.Valid() {
		return fmt.Errorf("priority must be between %d and %d", task.PriorityUnset, task.PriorityMax)
	}

	op, err := newOperator()
	if err != nil {
		return err
	}
	return op.setPriority(index, priority)
}
