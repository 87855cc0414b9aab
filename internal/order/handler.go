package order

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// History is a user's order history, most recent first.
type History interface {
	Orders() []Order
	Order(id string) (Order, error)
}

// Sessions resolves the order history of the authenticated caller.
type Sessions interface {
	History(c *fiber.Ctx) (History, error)
}

// Handler serves read access to order history. Orders are created by checkout.
type Handler struct {
	sessions Sessions
}

func NewHandler(sessions Sessions) *Handler {
	return &Handler{sessions: sessions}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/orders", h.getOrders)
	app.Get("/api/v1/orders/:id", h.getOrder)
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	history, err := h.sessions.History(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	orders := history.Orders()
	if orders == nil {
		orders = []Order{}
	}
	return c.JSON(orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	history, err := h.sessions.History(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	o, err := history.Order(c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(o)
}
