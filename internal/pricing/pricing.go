// Package pricing derives cart totals. Nothing here is cached; callers
// recompute on every read.
package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/wichananm65/shopease/internal/coupon"
)

// PlatformFee is charged on every order regardless of size.
var PlatformFee = decimal.NewFromInt(20)

// Line is the priced part of a cart line item.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Totals is the price breakdown shown at cart, checkout and on orders.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	PlatformFee decimal.Decimal `json:"platformFee"`
	Total       decimal.Decimal `json:"total"`
}

// Subtotal sums unit price times quantity without intermediate rounding.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

// ComputeTotals prices lines with an optional coupon. An empty cart still
// carries the platform fee.
func ComputeTotals(lines []Line, c *coupon.Coupon) Totals {
	subtotal := Subtotal(lines)
	discount := decimal.Zero
	if c != nil {
		discount = c.Discount(subtotal)
	}
	return Totals{
		Subtotal:    subtotal,
		Discount:    discount,
		PlatformFee: PlatformFee,
		Total:       subtotal.Sub(discount).Add(PlatformFee),
	}
}
