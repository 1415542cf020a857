package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
)

// Write prints rows as an aligned table. Orders whose subtotal disagrees
// with their lines are flagged with "!".
func Write(w io.Writer, rows []OrderSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(tw, "ORDER\tCUSTOMER\tSTATUS\tPAYMENT\tITEMS\tQTY\tSUBTOTAL\tCOMPUTED\tTOTAL\t")
	for _, row := range rows {
		flag := ""
		if !row.SubtotalMatches() {
			flag = "!"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%d\t%d\t%.2f\t%.2f\t%.2f\t%s\n",
			row.OrderID, row.CustomerID, row.OrderStatus, row.PaymentStatus,
			row.ItemCount, row.TotalQuantity, row.Subtotal, row.ComputedTotal, row.TotalAmount, flag)
	}

	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "failed to write summary")
	}
	return nil
}
