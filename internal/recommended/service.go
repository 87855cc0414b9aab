package recommended

import (
	"sort"

	"github.com/wichananm65/shopease/internal/product"
)

type Catalog interface {
	List() []product.Product
}

// Service ranks catalog products for the "recommended" shelf.
type Service struct {
	catalog Catalog
}

func NewService(catalog Catalog) *Service {
	return &Service{catalog: catalog}
}

// List returns up to `limit` products ordered by rating desc, then review count
// desc, starting at `offset`.
func (s *Service) List(limit int, offset int) []product.Product {
	items := s.catalog.List()
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Rating != items[j].Rating {
			return items[i].Rating > items[j].Rating
		}
		if items[i].Reviews != items[j].Reviews {
			return items[i].Reviews > items[j].Reviews
		}
		return items[i].ID < items[j].ID
	})
	if offset >= len(items) {
		return []product.Product{}
	}
	items = items[offset:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}
