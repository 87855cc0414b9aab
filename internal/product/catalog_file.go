package product

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type fileProduct struct {
	ID            int     `yaml:"id"`
	Name          string  `yaml:"name"`
	Price         float64 `yaml:"price"`
	OriginalPrice float64 `yaml:"originalPrice"`
	Image         string  `yaml:"image"`
	Category      string  `yaml:"category"`
	Description   string  `yaml:"description"`
	Rating        float64 `yaml:"rating"`
	Reviews       int     `yaml:"reviews"`
}

type catalogFile struct {
	Products []fileProduct `yaml:"products"`
}

// LoadYAML reads a catalog file with a top-level `products` list.
func LoadYAML(r io.Reader) ([]Product, error) {
	var f catalogFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	seen := map[int]bool{}
	out := make([]Product, 0, len(f.Products))
	for i, fp := range f.Products {
		if fp.Name == "" {
			return nil, fmt.Errorf("product %d: name is required", i)
		}
		if fp.Price < 0 {
			return nil, fmt.Errorf("product %q: price must be non-negative", fp.Name)
		}
		if fp.ID != 0 {
			if seen[fp.ID] {
				return nil, fmt.Errorf("product %q: duplicate id %d", fp.Name, fp.ID)
			}
			seen[fp.ID] = true
		}
		img := fp.Image
		if img == "" {
			img = placeholderImage
		}
		out = append(out, Product{
			ID:            fp.ID,
			Name:          fp.Name,
			Price:         decimal.NewFromFloat(fp.Price),
			OriginalPrice: decimal.NewFromFloat(fp.OriginalPrice),
			Image:         img,
			Category:      fp.Category,
			Description:   fp.Description,
			Rating:        fp.Rating,
			Reviews:       fp.Reviews,
		})
	}
	return out, nil
}
