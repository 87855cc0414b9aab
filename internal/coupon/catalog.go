package coupon

import (
	"fmt"
	"io"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Catalog is the set of redeemable coupons, looked up by code.
type Catalog struct {
	mu      sync.RWMutex
	coupons []Coupon
}

// Defaults is the storefront's built-in coupon list.
func Defaults() []Coupon {
	return []Coupon{
		{Code: "SAVE10", DiscountPercent: decimal.NewFromInt(10), MinimumSubtotal: decimal.NewFromInt(100)},
		{Code: "WELCOME20", DiscountPercent: decimal.NewFromInt(20), MinimumSubtotal: decimal.NewFromInt(200)},
		{Code: "MEGA30", DiscountPercent: decimal.NewFromInt(30), MinimumSubtotal: decimal.NewFromInt(500)},
	}
}

func NewCatalog(seed []Coupon) *Catalog {
	c := &Catalog{coupons: make([]Coupon, 0, len(seed))}
	for _, cp := range seed {
		cp.Code = NormalizeCode(cp.Code)
		c.coupons = append(c.coupons, cp)
	}
	return c
}

// List returns the coupons in catalog order.
func (c *Catalog) List() []Coupon {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Coupon, len(c.coupons))
	copy(out, c.coupons)
	return out
}

// Lookup finds a coupon by code, ignoring case and surrounding spaces.
func (c *Catalog) Lookup(code string) (Coupon, error) {
	key := NormalizeCode(code)
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cp := range c.coupons {
		if cp.Code == key {
			return cp, nil
		}
	}
	return Coupon{}, ErrInvalidCode
}

type fileCoupon struct {
	Code      string  `yaml:"code"`
	Discount  float64 `yaml:"discount"`
	MinAmount float64 `yaml:"minAmount"`
}

type catalogFile struct {
	Coupons []fileCoupon `yaml:"coupons"`
}

// LoadYAML reads a coupon list of the form
//
//	coupons:
//	  - code: SAVE10
//	    discount: 10
//	    minAmount: 100
func LoadYAML(r io.Reader) ([]Coupon, error) {
	var f catalogFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode coupons: %w", err)
	}
	out := make([]Coupon, 0, len(f.Coupons))
	for i, fc := range f.Coupons {
		if fc.Code == "" {
			return nil, fmt.Errorf("coupon %d: code is required", i)
		}
		if fc.Discount < 0 || fc.Discount > 100 {
			return nil, fmt.Errorf("coupon %s: discount must be 0-100", fc.Code)
		}
		out = append(out, Coupon{
			Code:            NormalizeCode(fc.Code),
			DiscountPercent: decimal.NewFromFloat(fc.Discount),
			MinimumSubtotal: decimal.NewFromFloat(fc.MinAmount),
		})
	}
	return out, nil
}
