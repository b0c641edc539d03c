package cli

import (
	"github.com/spf13/cobra"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout [name]",
	Short: "Switch to a different list",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckout,
}

func runCheckout(cmd *cobra.Command, args []string) error {
	op, err := newOperator()
	if err != nil {
		return err
	}
	return op.checkout(args[0])
}
