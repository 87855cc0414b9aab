package cart

import (
	"context"
	"sync"
	"time"

	"github.com/wichananm65/shopease/internal/coupon"
	"github.com/wichananm65/shopease/internal/pricing"
	"github.com/wichananm65/shopease/internal/product"
	"go.uber.org/zap"
)

type Options struct {
	NotificationTTL time.Duration
	// StrictCouponRecheck drops the active coupon once an item change leaves the
	// subtotal under its minimum.
	StrictCouponRecheck bool
}

// Store owns the cart of the active identity. Every mutation is saved before it
// returns; save failures are logged and the in-memory state stays authoritative.
type Store struct {
	mu      sync.Mutex
	state   State
	userID  int
	persist *Persistence
	coupons *coupon.Catalog
	notes   *notifier
	strict  bool
	logger  *zap.Logger
}

func NewStore(persist *Persistence, coupons *coupon.Catalog, logger *zap.Logger, opts Options) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		state:   State{Items: []LineItem{}},
		persist: persist,
		coupons: coupons,
		notes:   newNotifier(opts.NotificationTTL),
		strict:  opts.StrictCouponRecheck,
		logger:  logger,
	}
}

// SetIdentity switches the store to userID and loads its saved cart.
func (s *Store) SetIdentity(ctx context.Context, userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userID = userID
	s.state = State{Items: []LineItem{}}
	if s.persist == nil {
		return
	}
	loaded, err := s.persist.Load(ctx, userID)
	if err != nil {
		s.logger.Warn("cart record unreadable, starting empty", zap.Int("user_id", userID), zap.Error(err))
	}
	s.state = loaded
}

// ClearIdentity empties the in-memory cart on logout. The saved record is kept.
func (s *Store) ClearIdentity() {
	s.mu.Lock()
	s.userID = 0
	s.state = State{Items: []LineItem{}}
	s.mu.Unlock()
	s.notes.dismiss()
}

func (s *Store) AddItem(ctx context.Context, p product.Product) Notification {
	s.dispatch(ctx, AddItem{Item: ItemFromProduct(p)})
	return s.notes.show(p)
}

func (s *Store) RemoveItem(ctx context.Context, productID int) {
	s.dispatch(ctx, RemoveItem{ProductID: productID})
}

// UpdateQuantity sets the quantity of productID; quantity <= 0 removes the item.
func (s *Store) UpdateQuantity(ctx context.Context, productID, quantity int) {
	s.dispatch(ctx, UpdateQuantity{ProductID: productID, Quantity: quantity})
}

// ApplyCoupon activates c, replacing any active coupon. It fails with a
// *coupon.BelowMinimumError and leaves the cart as is when the subtotal is too low.
func (s *Store) ApplyCoupon(ctx context.Context, c coupon.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := c.Eligible(pricing.Subtotal(s.state.Lines())); err != nil {
		return err
	}
	s.applyLocked(ctx, ApplyCoupon{Coupon: c})
	return nil
}

// ApplyCouponCode looks code up in the coupon catalog and applies it.
func (s *Store) ApplyCouponCode(ctx context.Context, code string) (coupon.Coupon, error) {
	if s.coupons == nil {
		return coupon.Coupon{}, coupon.ErrInvalidCode
	}
	c, err := s.coupons.Lookup(code)
	if err != nil {
		return coupon.Coupon{}, err
	}
	if err := s.ApplyCoupon(ctx, c); err != nil {
		return coupon.Coupon{}, err
	}
	return c, nil
}

func (s *Store) RemoveCoupon(ctx context.Context) {
	s.dispatch(ctx, RemoveCoupon{})
}

// Clear empties the cart and deletes the saved record.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, Clear{})
	if s.userID == 0 || s.persist == nil {
		return
	}
	if err := s.persist.Delete(ctx, s.userID); err != nil {
		s.logger.Error("failed to delete cart record", zap.Int("user_id", s.userID), zap.Error(err))
	}
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) Totals() pricing.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Totals()
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ItemCount()
}

func (s *Store) Notification() (Notification, bool) {
	return s.notes.get()
}

func (s *Store) DismissNotification() {
	s.notes.dismiss()
}

func (s *Store) dispatch(ctx context.Context, a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(ctx, a)
}

func (s *Store) applyLocked(ctx context.Context, a Action) {
	next := Reduce(s.state, a)
	if s.strict && next.Coupon != nil {
		switch a.(type) {
		case AddItem, RemoveItem, UpdateQuantity:
			if err := next.Coupon.Eligible(pricing.Subtotal(next.Lines())); err != nil {
				next = Reduce(next, RemoveCoupon{})
			}
		}
	}
	s.state = next
	s.saveLocked(ctx)
}

func (s *Store) saveLocked(ctx context.Context) {
	if s.userID == 0 || s.persist == nil {
		return
	}
	if err := s.persist.Save(ctx, s.userID, s.state); err != nil {
		s.logger.Error("failed to save cart", zap.Int("user_id", s.userID), zap.Error(err))
	}
}
