package recommended

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/wichananm65/shopease/internal/product"
)

func newService() *Service {
	return NewService(product.NewService(product.NewInMemoryRepository(product.Defaults())))
}

func ids(items []product.Product) []int {
	out := make([]int, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func TestList_OrdersByRating(t *testing.T) {
	s := newService()
	assert.Equal(t, []int{3, 6, 1, 5, 2, 4}, ids(s.List(12, 0)))
	assert.Equal(t, []int{1, 5}, ids(s.List(2, 2)))
	assert.Empty(t, s.List(5, 6))
}

func TestHandler_Pagination(t *testing.T) {
	app := fiber.New()
	NewHandler(newService()).RegisterPublicRoutes(app)

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/recommended?limit=2&offset=1", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var got []product.Product
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].ID != 6 || got[1].ID != 1 {
		t.Fatalf("unexpected page %v", ids(got))
	}

}

func TestHandler_RejectsBadPaging(t *testing.T) {
	app := fiber.New()
	NewHandler(newService()).RegisterPublicRoutes(app)

	for _, q := range []string{"limit=-4", "limit=0", "limit=abc", "offset=-1", "offset=x"} {
		res, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/recommended?"+q, nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if res.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, res.StatusCode)
		}
		var body map[string]string
		if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["message"] == "" {
			t.Fatalf("%s: expected an error message", q)
		}
	}
}

type bigCatalog struct{ n int }

func (b bigCatalog) List() []product.Product {
	out := make([]product.Product, b.n)
	for i := range out {
		out[i] = product.Product{ID: i + 1, Rating: 4}
	}
	return out
}

func TestHandler_CapsLimit(t *testing.T) {
	app := fiber.New()
	NewHandler(NewService(bigCatalog{n: MaxLimit + 20})).RegisterPublicRoutes(app)

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/products/recommended?limit=100000", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var got []product.Product
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	assert.Len(t, got, MaxLimit)

	res, _ = app.Test(httptest.NewRequest("GET", "/api/v1/products/recommended", nil))
	got = nil
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	assert.Len(t, got, DefaultLimit)
}
