package product

import "strings"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() []Product {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.repo.GetByID(id)
}

// Search filters the catalog by a free-text query and a category. The query
// matches name, description or category case-insensitively; results keep
// catalog order. An empty category or "All" disables the category filter.
func (s *Service) Search(query, category string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Product, 0)
	for _, p := range s.repo.List() {
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) &&
			!strings.Contains(strings.ToLower(p.Category), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories returns "All" followed by the distinct categories in catalog order.
func (s *Service) Categories() []string {
	seen := map[string]bool{}
	out := []string{AllCategories}
	for _, p := range s.repo.List() {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	return out
}
