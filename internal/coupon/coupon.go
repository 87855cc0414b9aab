package coupon

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCode = errors.New("invalid coupon code")
)

// Coupon is a percentage discount gated by a minimum subtotal.
// JSON tags keep the field names the storefront has always used.
type Coupon struct {
	Code            string          `json:"code"`
	DiscountPercent decimal.Decimal `json:"discount"`
	MinimumSubtotal decimal.Decimal `json:"minAmount"`
}

// BelowMinimumError reports that a cart subtotal does not reach the coupon minimum.
type BelowMinimumError struct {
	Code    string
	Minimum decimal.Decimal
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("minimum order amount of $%s required", e.Minimum.String())
}

// Eligible checks the minimum subtotal rule.
func (c Coupon) Eligible(subtotal decimal.Decimal) error {
	if subtotal.LessThan(c.MinimumSubtotal) {
		return &BelowMinimumError{Code: c.Code, Minimum: c.MinimumSubtotal}
	}
	return nil
}

// Discount is the amount taken off the given subtotal.
func (c Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(c.DiscountPercent).Div(decimal.NewFromInt(100))
}

// Clone returns a copy that shares nothing with c.
func (c *Coupon) Clone() *Coupon {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// NormalizeCode turns user input into a catalog key.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
