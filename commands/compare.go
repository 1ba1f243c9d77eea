// Package commands holds the CLI subcommands registered on the PocketBase
// root command.
package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"

	"sitecost/services"
)

// NewCompareCommand prints the variance of a vendor quote against an
// estimate's cost together with the recommendation.
func NewCompareCommand(app core.App) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <estimateId> <quoteId>",
		Short: "Compare a vendor quote with an estimate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := prepare(app); err != nil {
				return err
			}
			est, _, err := services.LoadEstimate(app, args[0])
			if err != nil {
				return err
			}
			q, rec, err := services.LoadQuote(app, args[1])
			if err != nil {
				return err
			}
			if rec.GetString("estimate") != est.ID {
				return fmt.Errorf("quote %s is not on estimate %s", q.ID, est.ID)
			}
			return WriteComparison(cmd.OutOrStdout(), est.Title, services.CompareQuote(est, q))
		},
	}
}

// WriteComparison renders a comparison as an aligned text table.
func WriteComparison(w io.Writer, title string, cmp services.QuoteComparison) error {
	fmt.Fprintf(w, "%s vs %s\n\n", cmp.Vendor, title)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Category\tYour cost\tVendor quote\tDifference\t% diff\t")
	for _, v := range cmp.Categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			v.Category.Label(),
			services.FormatCurrency(v.EstimateSubtotal),
			services.FormatCurrency(v.QuoteSubtotal),
			services.FormatCurrency(v.Difference),
			services.FormatPercent(v.PercentageDiff))
	}
	fmt.Fprintf(tw, "Total\t%s\t%s\t%s\t%s\t\n",
		services.FormatCurrency(cmp.YourTotalCost),
		services.FormatCurrency(cmp.VendorQuote),
		services.FormatCurrency(cmp.TotalDifference),
		services.FormatPercent(cmp.TotalPercentageDiff))
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nRecommendation: %s (acceptable up to %s at %s target margin)\n",
		cmp.Recommendation,
		services.FormatCurrency(cmp.MinimumAcceptable),
		services.FormatPercent(cmp.TargetMarginPercent))
	return err
}
