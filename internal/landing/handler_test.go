package landing

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func getLanding(t *testing.T, url string) Content {
	t.Helper()
	app := fiber.New()
	NewHandler(Defaults()).RegisterPublicRoutes(app)

	res, err := app.Test(httptest.NewRequest("GET", url, nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	var out Content
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestGetLanding(t *testing.T) {
	got := getLanding(t, "/api/v1/landing")
	if len(got.Features) != 4 || len(got.Testimonials) != 3 {
		t.Fatalf("unexpected content %+v", got)
	}
	if got.Features[3].Title != "Easy Payments" {
		t.Fatalf("unexpected feature order %+v", got.Features)
	}
}

func TestGetLanding_CapsTestimonials(t *testing.T) {
	if got := getLanding(t, "/api/v1/landing?testimonials=1"); len(got.Testimonials) != 1 {
		t.Fatalf("expected 1 testimonial, got %d", len(got.Testimonials))
	}
	if got := getLanding(t, "/api/v1/landing?testimonials=x"); len(got.Testimonials) != 3 {
		t.Fatalf("expected all testimonials for a bad cap, got %d", len(got.Testimonials))
	}
}
