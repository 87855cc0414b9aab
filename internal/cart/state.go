package cart

import (
	"github.com/shopspring/decimal"
	"github.com/wichananm65/shopease/internal/coupon"
	"github.com/wichananm65/shopease/internal/pricing"
	"github.com/wichananm65/shopease/internal/product"
)

// LineItem is one product in the cart. A cart never holds two items with the same ProductID.
type LineItem struct {
	ProductID int             `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
}

func ItemFromProduct(p product.Product) LineItem {
	return LineItem{ProductID: p.ID, Name: p.Name, UnitPrice: p.Price, Quantity: 1, Image: p.Image}
}

// State is the whole cart. Items keep insertion order.
type State struct {
	Items  []LineItem     `json:"items"`
	Coupon *coupon.Coupon `json:"coupon"`
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := State{Items: make([]LineItem, len(s.Items)), Coupon: s.Coupon.Clone()}
	copy(out.Items, s.Items)
	return out
}

func (s State) Lines() []pricing.Line {
	lines := make([]pricing.Line, len(s.Items))
	for i, it := range s.Items {
		lines[i] = pricing.Line{UnitPrice: it.UnitPrice, Quantity: it.Quantity}
	}
	return lines
}

func (s State) Totals() pricing.Totals {
	return pricing.ComputeTotals(s.Lines(), s.Coupon)
}

func (s State) ItemCount() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

func (s State) indexOf(productID int) int {
	for i, it := range s.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// normalize drops malformed lines from a loaded record.
func (s State) normalize() State {
	out := State{Items: make([]LineItem, 0, len(s.Items)), Coupon: s.Coupon}
	seen := map[int]bool{}
	for _, it := range s.Items {
		if it.Quantity <= 0 || seen[it.ProductID] {
			continue
		}
		seen[it.ProductID] = true
		out.Items = append(out.Items, it)
	}
	return out
}
