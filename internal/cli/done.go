package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done [n]",
	Short: "List completed tasks",
	Long: `Lists the five most recently completed tasks on the current list.
Pass n for the n most recent, or a negative n for the |n| oldest
(pass -- before a negative n). --all prints every completed task.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDone,
}

func init() {
	doneCmd.Flags().Bool("all", false, "Show all completed tasks")
	doneCmd.Flags().BoolP("priority", "p", false, "Sort tasks by priority")
}

func runDone(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	byPriority, _ := cmd.Flags().GetBool("priority")

	n := 5
	if len(args) == 1 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid count %q", args[0])
		}
		n = parsed
	}

	op, err := newOperator()
	if err != nil {
		return err
	}
	return op.listCompleted(n, all, verbose, byPriority)
}
