package product

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func newTestApp() *fiber.App {
	h := NewHandler(NewService(NewInMemoryRepository(Defaults())))
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	return app
}

func TestGetProducts_SearchAndCategory(t *testing.T) {
	app := newTestApp()

	cases := []struct {
		url  string
		want []int
	}{
		{"/api/v1/products", []int{1, 2, 3, 4, 5, 6}},
		{"/api/v1/products?q=SPEAKER", []int{4}},
		{"/api/v1/products?q=electronics", []int{1, 4}},
		{"/api/v1/products?category=Fashion", []int{3, 5}},
		{"/api/v1/products?category=All&q=bag", []int{3}},
		{"/api/v1/products?category=Fashion&q=speaker", []int{}},
		{"/api/v1/products?search=watch", []int{2}},
	}

	for _, tc := range cases {
		res, err := app.Test(httptest.NewRequest("GET", tc.url, nil))
		if err != nil {
			t.Fatalf("%s: request failed: %v", tc.url, err)
		}
		if res.StatusCode != 200 {
			t.Fatalf("%s: expected 200, got %d", tc.url, res.StatusCode)
		}
		var got []Product
		if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
			t.Fatalf("%s: decode: %v", tc.url, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("%s: expected %d products, got %d", tc.url, len(tc.want), len(got))
		}
		for i, id := range tc.want {
			if got[i].ID != id {
				t.Fatalf("%s: expected id %d at %d, got %d", tc.url, id, i, got[i].ID)
			}
		}
	}
}

func TestGetProduct(t *testing.T) {
	app := newTestApp()

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/3", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var p Product
	if err := json.NewDecoder(res.Body).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Name != "Leather Messenger Bag" || !p.Price.Equal(decimal.NewFromInt(149)) {
		t.Fatalf("unexpected product: %+v", p)
	}

	res, _ = app.Test(httptest.NewRequest("GET", "/api/v1/products/99", nil))
	if res.StatusCode != 404 {
		t.Fatalf("expected 404 for unknown product, got %d", res.StatusCode)
	}

	// non-numeric ids don't match the route at all
	res, _ = app.Test(httptest.NewRequest("GET", "/api/v1/products/abc", nil))
	if res.StatusCode != 404 {
		t.Fatalf("expected 404 for non-numeric id, got %d", res.StatusCode)
	}
}

func TestGetCategories(t *testing.T) {
	app := newTestApp()

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/categories", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var got []string
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "All,Electronics,Wearables,Fashion,Lifestyle"
	if strings.Join(got, ",") != want {
		t.Fatalf("expected %s, got %v", want, got)
	}
}

func TestLoadYAML(t *testing.T) {
	src := `
products:
  - id: 10
    name: Dog Leash
    price: 12.5
    category: Pets
  - name: Cat Toy
    price: 3
`
	products, err := LoadYAML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if !products[0].Price.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected price %s", products[0].Price)
	}
	if products[1].Image != placeholderImage {
		t.Fatalf("expected placeholder image, got %q", products[1].Image)
	}

	repo := NewInMemoryRepository(products)
	got, err := repo.GetByID(11)
	if err != nil || got.Name != "Cat Toy" {
		t.Fatalf("expected Cat Toy to get id 11, got %+v (%v)", got, err)
	}

	if _, err := LoadYAML(strings.NewReader("products:\n  - price: 1\n")); err == nil {
		t.Fatalf("expected error for product without a name")
	}
	if _, err := LoadYAML(strings.NewReader("products:\n  - {id: 1, name: a}\n  - {id: 1, name: b}\n")); err == nil {
		t.Fatalf("expected error for duplicate id")
	}
}
