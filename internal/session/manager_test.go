package session

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/shopease/internal/cart"
	"github.com/wichananm65/shopease/internal/checkout"
	"github.com/wichananm65/shopease/internal/coupon"
	"github.com/wichananm65/shopease/internal/order"
	"github.com/wichananm65/shopease/internal/payment"
	"github.com/wichananm65/shopease/internal/product"
	"github.com/wichananm65/shopease/internal/storage"
	"github.com/wichananm65/shopease/internal/user"
)

var (
	admin = user.Identity{ID: 1, Email: "admin@shopease.com", Name: "Admin", Role: user.RoleAdmin}
	demo  = user.Identity{ID: 3, Email: "demo@shopease.com", Name: "Demo", Role: user.RoleUser}
)

func newTestManager(records storage.Store) *Manager {
	return NewManager(Config{
		Records: records,
		Coupons: coupon.NewCatalog(coupon.Defaults()),
		Gateway: order.SimulatedGateway{},
	})
}

func mustGet(t *testing.T, m *Manager, id user.Identity) *Session {
	t.Helper()
	s, err := m.Get(context.Background(), id)
	require.NoError(t, err)
	return s
}

func TestManager_OpenAndClose(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(storage.NewMemoryStore())

	require.NoError(t, m.Open(ctx, demo))
	assert.Equal(t, 1, m.Len())

	s := mustGet(t, m, demo)
	id, ok := s.Account.Identity()
	require.True(t, ok)
	assert.Equal(t, demo, id)
	assert.Len(t, s.Account.Addresses(), 2)

	require.NoError(t, m.Close(ctx, demo.ID))
	assert.Equal(t, 0, m.Len())
	assert.False(t, s.Account.IsAuthenticated())
	assert.Equal(t, 0, s.Cart.ItemCount())

	require.NoError(t, m.Close(ctx, demo.ID))
}

func TestManager_CloseAllFlushesRecords(t *testing.T) {
	ctx := context.Background()
	records := storage.NewMemoryStore()
	m := newTestManager(records)
	require.NoError(t, m.Open(ctx, demo))
	require.NoError(t, m.Open(ctx, admin))

	m.CloseAll(ctx)
	assert.Equal(t, 0, m.Len())

	_, found, err := records.Get(ctx, storage.Key("addresses", admin.ID))
	require.NoError(t, err)
	assert.True(t, found)
}

func TestManager_OpenRejectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := newTestManager(storage.NewMemoryStore())
	assert.ErrorIs(t, m.Open(ctx, demo), context.Canceled)
	assert.Equal(t, 0, m.Len())
}

func TestManager_CartSurvivesSignOut(t *testing.T) {
	ctx := context.Background()
	records := storage.NewMemoryStore()
	m := newTestManager(records)

	require.NoError(t, m.Open(ctx, demo))
	mustGet(t, m, demo).Cart.AddItem(ctx, product.Defaults()[1])
	require.NoError(t, m.Close(ctx, demo.ID))

	require.NoError(t, m.Open(ctx, demo))
	assert.Equal(t, 1, mustGet(t, m, demo).Cart.ItemCount())
}

func TestManager_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(storage.NewMemoryStore())
	require.NoError(t, m.Open(ctx, demo))
	require.NoError(t, m.Open(ctx, admin))

	mustGet(t, m, demo).Cart.AddItem(ctx, product.Defaults()[0])

	assert.Equal(t, 1, mustGet(t, m, demo).Cart.ItemCount())
	assert.Equal(t, 0, mustGet(t, m, admin).Cart.ItemCount())
	assert.NotSame(t, mustGet(t, m, demo).Checkout, mustGet(t, m, admin).Checkout)
}

func TestManager_GetRestoresFromRecords(t *testing.T) {
	ctx := context.Background()
	records := storage.NewMemoryStore()

	first := newTestManager(records)
	require.NoError(t, first.Open(ctx, demo))
	mustGet(t, first, demo).Cart.AddItem(ctx, product.Defaults()[2])

	restarted := newTestManager(records)
	s := mustGet(t, restarted, demo)
	assert.Equal(t, 1, s.Cart.ItemCount())
	assert.Equal(t, 1, restarted.Len())
}

// placeInBackground walks the session to review and starts PlaceOrder. It
// returns once the gateway is running.
func placeInBackground(t *testing.T, s *Session) <-chan error {
	t.Helper()
	ctx := context.Background()
	s.Cart.AddItem(ctx, product.Defaults()[0])
	s.Account.SetPaymentMethod(ctx, payment.Method{ID: payment.COD, Name: "Cash on Delivery"})
	_, err := s.Checkout.Enter()
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = s.Checkout.Next()
		require.NoError(t, err)
	}

	placed := make(chan error, 1)
	go func() {
		_, err := s.Checkout.PlaceOrder(ctx)
		placed <- err
	}()
	require.Eventually(t, func() bool {
		v, err := s.Checkout.View()
		return err == nil && v.Placing
	}, time.Second, 2*time.Millisecond)
	return placed
}

func TestManager_CloseKeepsOrderBeingPlaced(t *testing.T) {
	ctx := context.Background()
	m := NewManager(Config{
		Records: storage.NewMemoryStore(),
		Coupons: coupon.NewCatalog(coupon.Defaults()),
		Gateway: order.SimulatedGateway{Delay: 200 * time.Millisecond},
	})
	require.NoError(t, m.Open(ctx, demo))
	placed := placeInBackground(t, mustGet(t, m, demo))

	require.NoError(t, m.Close(ctx, demo.ID))
	require.NoError(t, <-placed)

	require.NoError(t, m.Open(ctx, demo))
	s := mustGet(t, m, demo)
	assert.Len(t, s.Account.Orders(), 1)
	assert.Equal(t, 0, s.Cart.ItemCount())
}

func TestManager_ReopenKeepsOrderBeingPlaced(t *testing.T) {
	ctx := context.Background()
	m := NewManager(Config{
		Records: storage.NewMemoryStore(),
		Coupons: coupon.NewCatalog(coupon.Defaults()),
		Gateway: order.SimulatedGateway{Delay: 200 * time.Millisecond},
	})
	require.NoError(t, m.Open(ctx, demo))
	prev := mustGet(t, m, demo)
	placed := placeInBackground(t, prev)

	require.NoError(t, m.Open(ctx, demo))
	require.NoError(t, <-placed)

	s := mustGet(t, m, demo)
	assert.NotSame(t, prev, s)
	assert.Len(t, s.Account.Orders(), 1)
	assert.Equal(t, 0, s.Cart.ItemCount())

	_, err := prev.Checkout.PlaceOrder(ctx)
	assert.ErrorIs(t, err, checkout.ErrClosed)
}

func TestManager_CloseGivesUpAfterDrainTimeout(t *testing.T) {
	ctx := context.Background()
	m := NewManager(Config{
		Records:      storage.NewMemoryStore(),
		Coupons:      coupon.NewCatalog(coupon.Defaults()),
		Gateway:      order.SimulatedGateway{Delay: 300 * time.Millisecond},
		DrainTimeout: 10 * time.Millisecond,
	})
	require.NoError(t, m.Open(ctx, demo))
	placed := placeInBackground(t, mustGet(t, m, demo))

	require.NoError(t, m.Close(ctx, demo.ID))
	assert.Equal(t, 0, m.Len())
	require.NoError(t, <-placed)
}

func makeAppWithSessions(m *Manager, products cart.Products) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				claims := jwt.MapClaims{"user_id": id, "email": "demo@shopease.com", "role": user.RoleUser}
				tok := &jwt.Token{Claims: claims}
				c.Locals("user", tok)
			}
		}
		return c.Next()
	})
	cart.NewHandler(m, products, nil).RegisterProtectedRoutes(app)
	order.NewHandler(m).RegisterProtectedRoutes(app)
	return app
}

func TestManager_ResolvesFromToken(t *testing.T) {
	m := newTestManager(storage.NewMemoryStore())
	app := makeAppWithSessions(m, product.NewService(product.NewInMemoryRepository(product.Defaults())))

	req := httptest.NewRequest("POST", "/api/v1/cart/items", strings.NewReader(`{"productId":5}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "3")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	s := mustGet(t, m, demo)
	assert.Equal(t, 1, s.Cart.ItemCount())
	id, _ := s.Account.Identity()
	assert.Equal(t, "Demo", id.Name)

	req = httptest.NewRequest("GET", "/api/v1/orders", nil)
	req.Header.Set("X-User-ID", "3")
	res, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var orders []map[string]any
	if err := json.NewDecoder(res.Body).Decode(&orders); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected no orders, got %v", orders)
	}

	res, _ = app.Test(httptest.NewRequest("GET", "/api/v1/cart", nil))
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", res.StatusCode)
	}
}

func TestManager_SignedOutTokenIsRefused(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(storage.NewMemoryStore())
	app := makeAppWithSessions(m, product.NewService(product.NewInMemoryRepository(product.Defaults())))
	get := func() int {
		req := httptest.NewRequest("GET", "/api/v1/cart", nil)
		req.Header.Set("X-User-ID", "3")
		res, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		return res.StatusCode
	}

	require.NoError(t, m.Open(ctx, demo))
	if code := get(); code != fiber.StatusOK {
		t.Fatalf("expected 200 while signed in, got %d", code)
	}

	require.NoError(t, m.Close(ctx, demo.ID))
	if code := get(); code != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 after sign-out, got %d", code)
	}
	_, err := m.Get(ctx, demo)
	assert.ErrorIs(t, err, ErrSignedOut)
	assert.Equal(t, 0, m.Len())

	require.NoError(t, m.Open(ctx, demo))
	if code := get(); code != fiber.StatusOK {
		t.Fatalf("expected 200 after signing in again, got %d", code)
	}
}
