package main

import (
	"github.com/spf13/cobra"

	"github.com/tordrt/shopschema"
	"github.com/tordrt/shopschema/internal/report"
)

func newSummaryCmd(a *app) *cobra.Command {
	var (
		mismatches bool
		customerID int64
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "List order_summary rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := a.requireDatabaseURL()
			if err != nil {
				return err
			}

			rows, err := shopschema.OrderSummaries(cmd.Context(), url, &shopschema.SummaryOptions{
				CustomerID:     customerID,
				MismatchesOnly: mismatches,
				Logger:         a.logger,
				Database:       a.database(),
			})
			if err != nil {
				return err
			}

			return report.Write(cmd.OutOrStdout(), rows)
		},
	}

	a.addDatabaseFlags(cmd)
	cmd.Flags().BoolVar(&mismatches, "mismatches", false, "Only orders whose subtotal differs from the sum of their lines")
	cmd.Flags().Int64Var(&customerID, "customer", 0, "Only orders of this customer")

	return cmd
}
