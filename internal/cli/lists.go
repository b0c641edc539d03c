package cli

import (
	"github.com/spf13/cobra"
)

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Show all lists",
	RunE:  runLists,
}

var listsNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a new list",
	Args:  cobra.ExactArgs(1),
	RunE:  runListsNew,
}

var listsDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a list and all of its tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runListsDelete,
}

func init() {
	listsCmd.AddCommand(listsNewCmd)
	listsCmd.AddCommand(listsDeleteCmd)
}

func runLists(cmd *cobra.Command, args []string) error {
	op, err := newOperator()
	if err != nil {
		return err
	}
	return op.showLists()
}

func runListsNew(cmd *cobra.Command, args []string) error {
	op, err := newOperator()
	if err != nil {
		return err
	}
	return op.createList(args[0])
}

func runListsDelete(cmd *cobra.Command, args []string) error {
	op, err := newOperator()
	if err != nil {
		return err
	}
	return op.deleteList(args[0])
}
