package checkout

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Sessions resolves the checkout machine of the authenticated caller.
type Sessions interface {
	Checkout(c *fiber.Ctx) (*Machine, error)
}

type Handler struct {
	sessions Sessions
}

func NewHandler(sessions Sessions) *Handler {
	return &Handler{sessions: sessions}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/checkout", h.getCheckout)
	app.Post("/api/v1/checkout", h.enter)
	app.Post("/api/v1/checkout/next", h.next)
	app.Post("/api/v1/checkout/back", h.back)
	app.Post("/api/v1/checkout/place-order", h.placeOrder)
}

func (h *Handler) getCheckout(c *fiber.Ctx) error {
	m, err := h.sessions.Checkout(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	return respondView(c, m)
}

func (h *Handler) enter(c *fiber.Ctx) error {
	return h.transition(c, (*Machine).Enter)
}

func (h *Handler) next(c *fiber.Ctx) error {
	return h.transition(c, (*Machine).Next)
}

func (h *Handler) back(c *fiber.Ctx) error {
	return h.transition(c, (*Machine).Back)
}

func (h *Handler) transition(c *fiber.Ctx, move func(*Machine) (Step, error)) error {
	m, err := h.sessions.Checkout(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	if _, err := move(m); err != nil {
		return respondError(c, err)
	}
	return respondView(c, m)
}

func (h *Handler) placeOrder(c *fiber.Ctx) error {
	m, err := h.sessions.Checkout(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	o, err := m.PlaceOrder(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order":    o,
		"redirect": "/order-success",
	})
}

func respondView(c *fiber.Ctx, m *Machine) error {
	v, err := m.View()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(v)
}

func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrEmptyCart):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error(), "redirect": "/cart"})
	case errors.Is(err, ErrClosed):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	case errors.Is(err, ErrPlacementInProgress):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrNotAtReview), errors.Is(err, ErrAddressRequired), errors.Is(err, ErrPaymentRequired):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusRequestTimeout).JSON(fiber.Map{"message": "order placement cancelled"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
