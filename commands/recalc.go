package commands

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"

	"sitecost/collections"
)

// NewRecalcCommand recomputes the stored totals of every line item.
func NewRecalcCommand(app core.App) *cobra.Command {
	return &cobra.Command{
		Use:   "recalc",
		Short: "Recompute stored line item totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := prepare(app); err != nil {
				return err
			}
			n, err := collections.RepairLineItemTotals(app)
			if err != nil {
				return err
			}
			app.Logger().Info("recalc: line items repaired", "count", n)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d line items updated\n", n)
			return err
		},
	}
}

// prepare bootstraps the app when the root command has not done so and
// makes sure the collections exist.
func prepare(app core.App) error {
	if !app.IsBootstrapped() {
		if err := app.Bootstrap(); err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
	}
	collections.Setup(app)
	return nil
}
