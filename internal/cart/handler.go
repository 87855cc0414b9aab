package cart

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/shopease/internal/coupon"
	"github.com/wichananm65/shopease/internal/pricing"
	"github.com/wichananm65/shopease/internal/product"
)

// Sessions resolves the cart of the authenticated caller.
type Sessions interface {
	Cart(c *fiber.Ctx) (*Store, error)
}

type Products interface {
	GetByID(id int) (product.Product, error)
}

// Handler exposes the cart store over HTTP.
type Handler struct {
	sessions Sessions
	products Products
	coupons  *coupon.Catalog
}

func NewHandler(sessions Sessions, products Products, coupons *coupon.Catalog) *Handler {
	return &Handler{sessions: sessions, products: products, coupons: coupons}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/coupons", h.getCoupons)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Delete("/api/v1/cart", h.clearCart)
	app.Post("/api/v1/cart/items", h.addItem)
	app.Patch("/api/v1/cart/items/:id<[0-9]+>", h.updateQuantity)
	app.Delete("/api/v1/cart/items/:id<[0-9]+>", h.removeItem)
	app.Post("/api/v1/cart/coupon", h.applyCoupon)
	app.Delete("/api/v1/cart/coupon", h.removeCoupon)
	app.Get("/api/v1/cart/notification", h.getNotification)
	app.Delete("/api/v1/cart/notification", h.dismissNotification)
}

type cartResponse struct {
	Items     []LineItem     `json:"items"`
	Coupon    *coupon.Coupon `json:"coupon"`
	ItemCount int            `json:"itemCount"`
	Totals    pricing.Totals `json:"totals"`
}

func newCartResponse(s State) cartResponse {
	return cartResponse{Items: s.Items, Coupon: s.Coupon, ItemCount: s.ItemCount(), Totals: s.Totals()}
}

type addItemRequest struct {
	ProductID int `json:"productId"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

type couponRequest struct {
	Code string `json:"code"`
}

func (h *Handler) getCoupons(c *fiber.Ctx) error {
	if h.coupons == nil {
		return c.JSON([]coupon.Coupon{})
	}
	return c.JSON(h.coupons.List())
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	store, err := h.sessions.Cart(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	return c.JSON(newCartResponse(store.Snapshot()))
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	store, err := h.sessions.Cart(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	store.Clear(c.UserContext())
	return c.JSON(newCartResponse(store.Snapshot()))
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	store, err := h.sessions.Cart(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(addItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId"})
	}

	p, err := h.products.GetByID(payload.ProductID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Product not found"})
	}

	note := store.AddItem(c.UserContext(), p)
	return c.JSON(fiber.Map{
		"cart":         newCartResponse(store.Snapshot()),
		"notification": note,
	})
}

func (h *Handler) updateQuantity(c *fiber.Ctx) error {
	store, err := h.sessions.Cart(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	payload := new(quantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Quantity == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "quantity is required"})
	}

	store.UpdateQuantity(c.UserContext(), id, *payload.Quantity)
	return c.JSON(newCartResponse(store.Snapshot()))
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	store, err := h.sessions.Cart(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	store.RemoveItem(c.UserContext(), id)
	return c.JSON(newCartResponse(store.Snapshot()))
}

func (h *Handler) applyCoupon(c *fiber.Ctx) error {
	store, err := h.sessions.Cart(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(couponRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if _, err := store.ApplyCouponCode(c.UserContext(), payload.Code); err != nil {
		var below *coupon.BelowMinimumError
		switch {
		case errors.Is(err, coupon.ErrInvalidCode):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "Invalid coupon code"})
		case errors.As(err, &below):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"message": "Minimum order amount of $" + below.Minimum.String() + " required"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(newCartResponse(store.Snapshot()))
}

func (h *Handler) removeCoupon(c *fiber.Ctx) error {
	store, err := h.sessions.Cart(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	store.RemoveCoupon(c.UserContext())
	return c.JSON(newCartResponse(store.Snapshot()))
}

func (h *Handler) getNotification(c *fiber.Ctx) error {
	store, err := h.sessions.Cart(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	note, ok := store.Notification()
	if !ok {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(note)
}

func (h *Handler) dismissNotification(c *fiber.Ctx) error {
	store, err := h.sessions.Cart(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	store.DismissNotification()
	return c.SendStatus(fiber.StatusNoContent)
}
