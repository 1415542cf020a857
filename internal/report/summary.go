// Package report reads the order_summary view.
package report

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/tordrt/shopschema/internal/catalog"
)

// subtotalTolerance absorbs rounding between stored and recomputed amounts
const subtotalTolerance = 0.005

// OrderSummary is one row of the order_summary view
type OrderSummary struct {
	OrderID       int64     `gorm:"column:order_id"`
	CustomerID    int64     `gorm:"column:customer_id"`
	OrderStatus   string    `gorm:"column:order_status"`
	PaymentStatus string    `gorm:"column:payment_status"`
	Subtotal      float64   `gorm:"column:subtotal"`
	TotalAmount   float64   `gorm:"column:total_amount"`
	ItemCount     int64     `gorm:"column:item_count"`
	TotalQuantity int64     `gorm:"column:total_quantity"`
	ComputedTotal float64   `gorm:"column:computed_total"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (OrderSummary) TableName() string { return catalog.OrderSummary }

// SubtotalMatches reports whether the stored subtotal equals the sum of the
// order's lines. The view itself never checks this.
func (s OrderSummary) SubtotalMatches() bool {
	return math.Abs(s.Subtotal-s.ComputedTotal) < subtotalTolerance
}

// Options filters Summaries
type Options struct {
	// CustomerID limits rows to one customer when non-zero
	CustomerID int64
	// MismatchesOnly keeps orders whose subtotal disagrees with their lines
	MismatchesOnly bool
}

// Summaries returns order_summary rows ordered by order_id
func Summaries(ctx context.Context, gdb *gorm.DB, opts Options) ([]OrderSummary, error) {
	query := gdb.WithContext(ctx).Model(&OrderSummary{})
	if opts.CustomerID != 0 {
		query = query.Where("customer_id = ?", opts.CustomerID)
	}

	var rows []OrderSummary
	if err := query.Order("order_id").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to read order_summary")
	}

	if opts.MismatchesOnly {
		rows = Mismatches(rows)
	}
	return rows, nil
}

// Mismatches keeps the rows whose subtotal disagrees with their lines
func Mismatches(rows []OrderSummary) []OrderSummary {
	var out []OrderSummary
	for _, row := range rows {
		if !row.SubtotalMatches() {
			out = append(out, row)
		}
	}
	return out
}
