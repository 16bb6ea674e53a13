package shop

import (
	"context"
	"math"

	"github.com/pkg/errors"
)

// OrderTotalCalculator recomputes an order's total from its current item
// set. It runs synchronously after every write that touches the items; a
// failed recompute must fail the triggering operation, since a stale total
// is a data-integrity defect.
type OrderTotalCalculator struct {
	orders OrderRepository
}

func NewOrderTotalCalculator(orders OrderRepository) *OrderTotalCalculator {
	return &OrderTotalCalculator{orders: orders}
}

// Recompute sums quantity × unit_price over the order's items, persists
// the result and returns it.
func (c *OrderTotalCalculator) Recompute(ctx context.Context, orderID int64) (float64, error) {
	total, err := c.orders.SumItems(ctx, orderID)
	if err != nil {
		return 0, errors.Wrapf(err, "sum items of order %d", orderID)
	}
	total = Round2(total)
	if err := c.orders.UpdateTotalPrice(ctx, orderID, total); err != nil {
		return 0, errors.Wrapf(err, "persist total of order %d", orderID)
	}
	return total, nil
}

// Round2 rounds a monetary amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
