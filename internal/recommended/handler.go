package recommended

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultLimit = 12
	MaxLimit     = 50
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products/recommended", h.listRecommended)
}

// listRecommended pages the shelf with ?limit=&offset=. limit is capped at
// MaxLimit.
func (h *Handler) listRecommended(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit", DefaultLimit, 1)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	offset, err := queryInt(c, "offset", 0, 0)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return c.JSON(h.service.List(limit, offset))
}

func queryInt(c *fiber.Ctx, name string, def, floor int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < floor {
		return 0, fmt.Errorf("%s must be an integer of at least %d", name, floor)
	}
	return v, nil
}
