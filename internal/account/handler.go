package account

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/shopease/internal/address"
	"github.com/wichananm65/shopease/internal/payment"
)

// Sessions resolves the account store of the authenticated caller.
type Sessions interface {
	Account(c *fiber.Ctx) (*Store, error)
}

type Handler struct {
	sessions Sessions
}

func NewHandler(sessions Sessions) *Handler {
	return &Handler{sessions: sessions}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/profile", h.getProfile)
	app.Get("/api/v1/addresses", h.getAddresses)
	app.Post("/api/v1/addresses", h.addAddress)
	app.Put("/api/v1/addresses/selected", h.selectAddress)
	app.Patch("/api/v1/addresses/:id", h.updateAddress)
	app.Delete("/api/v1/addresses/:id", h.deleteAddress)
	app.Put("/api/v1/payment-method", h.setPaymentMethod)
}

type addressesResponse struct {
	Addresses []address.Address `json:"addresses"`
	Selected  *address.Address  `json:"selectedAddress"`
}

type selectRequest struct {
	ID string `json:"id"`
}

func newAddressesResponse(s *Store) addressesResponse {
	resp := addressesResponse{Addresses: s.Addresses()}
	if sel, ok := s.SelectedAddress(); ok {
		resp.Selected = &sel
	}
	return resp
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	store, err := h.sessions.Account(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	identity, ok := store.Identity()
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	resp := fiber.Map{
		"user":            identity,
		"isAuthenticated": true,
		"selectedAddress": nil,
		"paymentMethod":   nil,
	}
	if sel, ok := store.SelectedAddress(); ok {
		resp["selectedAddress"] = sel
	}
	if m, ok := store.PaymentMethod(); ok {
		resp["paymentMethod"] = m
	}
	return c.JSON(resp)
}

func (h *Handler) getAddresses(c *fiber.Ctx) error {
	store, err := h.sessions.Account(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	return c.JSON(newAddressesResponse(store))
}

func (h *Handler) addAddress(c *fiber.Ctx) error {
	store, err := h.sessions.Account(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(address.Draft)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := store.AddAddress(c.UserContext(), *payload)
	if err != nil {
		var verr *address.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": verr.Error(), "errors": verr.Fields})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateAddress(c *fiber.Ctx) error {
	store, err := h.sessions.Account(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(address.Patch)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := store.UpdateAddress(c.UserContext(), c.Params("id"), *payload)
	if err != nil {
		if errors.Is(err, address.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "address not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(updated)
}

func (h *Handler) deleteAddress(c *fiber.Ctx) error {
	store, err := h.sessions.Account(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	if err := store.DeleteAddress(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, address.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "address not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(newAddressesResponse(store))
}

func (h *Handler) selectAddress(c *fiber.Ctx) error {
	store, err := h.sessions.Account(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(selectRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	a, ok := address.Book(store.Addresses()).Find(payload.ID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "address not found"})
	}
	store.SetSelectedAddress(a)
	return c.JSON(newAddressesResponse(store))
}

func (h *Handler) setPaymentMethod(c *fiber.Ctx) error {
	store, err := h.sessions.Account(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(selectRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	m, err := payment.Lookup(payload.ID)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "Please select a valid payment method"})
	}
	store.SetPaymentMethod(c.UserContext(), m)
	return c.JSON(m)
}
