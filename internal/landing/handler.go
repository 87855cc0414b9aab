package landing

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	content Content
}

func NewHandler(content Content) *Handler {
	return &Handler{content: content}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/landing", h.getLanding)
}

// getLanding supports ?testimonials=N to cap the testimonial list.
func (h *Handler) getLanding(c *fiber.Ctx) error {
	out := h.content
	if l := c.Query("testimonials"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v >= 0 && v < len(out.Testimonials) {
			out.Testimonials = out.Testimonials[:v]
		}
	}
	return c.JSON(out)
}
