package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/wichananm65/shopease/internal/coupon"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotals_EmptyCartIsFeeOnly(t *testing.T) {
	got := ComputeTotals(nil, nil)

	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Discount.IsZero())
	assert.True(t, got.Total.Equal(dec("20")), "total = %s", got.Total)
}

func TestComputeTotals_SAVE10(t *testing.T) {
	save10 := &coupon.Coupon{Code: "SAVE10", DiscountPercent: dec("10"), MinimumSubtotal: dec("100")}
	lines := []Line{{UnitPrice: dec("50"), Quantity: 3}}

	got := ComputeTotals(lines, save10)

	assert.True(t, got.Subtotal.Equal(dec("150")))
	assert.True(t, got.Discount.Equal(dec("15.00")))
	assert.True(t, got.PlatformFee.Equal(dec("20")))
	assert.True(t, got.Total.Equal(dec("155.00")))
}

func TestComputeTotals_NoRoundingMidSum(t *testing.T) {
	lines := []Line{
		{UnitPrice: dec("0.333"), Quantity: 3},
		{UnitPrice: dec("19.99"), Quantity: 2},
	}

	got := ComputeTotals(lines, nil)

	assert.True(t, got.Subtotal.Equal(dec("40.979")), "subtotal = %s", got.Subtotal)
}

func TestComputeTotals_IsPure(t *testing.T) {
	c := &coupon.Coupon{Code: "MEGA30", DiscountPercent: dec("30"), MinimumSubtotal: dec("500")}
	lines := []Line{{UnitPrice: dec("299"), Quantity: 2}, {UnitPrice: dec("29"), Quantity: 1}}

	first := ComputeTotals(lines, c)
	second := ComputeTotals(lines, c)

	assert.Equal(t, first, second)
	for _, got := range []Totals{first, second} {
		want := got.Subtotal.Sub(got.Discount).Add(got.PlatformFee)
		assert.True(t, got.Total.Equal(want))
	}
}
