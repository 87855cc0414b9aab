package order

import (
	"errors"
	"time"

	"github.com/wichananm65/shopease/internal/address"
	"github.com/wichananm65/shopease/internal/cart"
	"github.com/wichananm65/shopease/internal/coupon"
	"github.com/wichananm65/shopease/internal/pricing"
)

var (
	ErrNotFound = errors.New("order not found")
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
)

// DeliveryWindow is added to the order date to estimate delivery.
const DeliveryWindow = 3 * 24 * time.Hour

// Draft is everything checkout knows about an order before it exists.
type Draft struct {
	Items         []cart.LineItem
	Address       address.Address
	PaymentMethod string
	Totals        pricing.Totals
	Coupon        *coupon.Coupon
}

// Order is an immutable record of a placed purchase.
type Order struct {
	ID            string          `json:"id"`
	Items         []cart.LineItem `json:"items"`
	Address       address.Address `json:"address"`
	PaymentMethod string          `json:"paymentMethod"`
	pricing.Totals
	Coupon            *coupon.Coupon `json:"coupon"`
	OrderDate         time.Time      `json:"orderDate"`
	Status            Status         `json:"status"`
	EstimatedDelivery time.Time      `json:"estimatedDelivery"`
}

// Clone returns a copy that shares no slices or pointers with o.
func (o Order) Clone() Order {
	items := make([]cart.LineItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	o.Coupon = o.Coupon.Clone()
	return o
}

func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
