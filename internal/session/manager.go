// Package session keeps one set of stores per signed-in identity and resolves
// them from the JWT on each request.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/shopease/internal/account"
	"github.com/wichananm65/shopease/internal/cart"
	"github.com/wichananm65/shopease/internal/checkout"
	"github.com/wichananm65/shopease/internal/coupon"
	"github.com/wichananm65/shopease/internal/order"
	"github.com/wichananm65/shopease/internal/storage"
	"github.com/wichananm65/shopease/internal/user"
	"go.uber.org/zap"
)

// Session is the state of one signed-in identity.
type Session struct {
	Identity user.Identity
	Cart     *cart.Store
	Account  *account.Store
	Checkout *checkout.Machine
}

var ErrSignedOut = errors.New("session signed out")

type Config struct {
	Records   storage.Store
	Coupons   *coupon.Catalog
	Factory   *order.Factory
	Gateway   order.Gateway
	Publisher checkout.Publisher
	Cart      cart.Options
	// DrainTimeout bounds how long sign-out waits for an order placement
	// that is already running.
	DrainTimeout time.Duration
	Logger       *zap.Logger
}

const defaultDrainTimeout = 10 * time.Second

type Manager struct {
	mu       sync.Mutex
	cfg      Config
	sessions map[int]*Session
	// closing holds a channel per user whose previous session is still being
	// saved; it is closed once the records are flushed.
	closing map[int]chan struct{}
	// revoked users signed out in this process and stay out until Open.
	revoked map[int]struct{}
}

func NewManager(cfg Config) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Factory == nil {
		cfg.Factory = order.NewFactory(nil, nil)
	}
	if cfg.Gateway == nil {
		cfg.Gateway = order.SimulatedGateway{Delay: order.DefaultSubmitDelay}
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = defaultDrainTimeout
	}
	return &Manager{
		cfg:      cfg,
		sessions: make(map[int]*Session),
		closing:  make(map[int]chan struct{}),
		revoked:  make(map[int]struct{}),
	}
}

// Open builds a fresh session for id and loads its saved records. An existing
// session for the same id is closed first, after any order it is placing has
// been committed.
func (m *Manager) Open(ctx context.Context, id user.Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.lockIdle(ctx, id.ID); err != nil {
		return err
	}
	prev, hadPrev := m.sessions[id.ID]
	delete(m.sessions, id.ID)
	delete(m.revoked, id.ID)
	done := m.markClosingLocked(id.ID)
	m.mu.Unlock()

	if hadPrev {
		m.shutdown(ctx, prev)
	}
	s := m.build(ctx, id)

	m.mu.Lock()
	m.sessions[id.ID] = s
	m.finishClosingLocked(id.ID, done)
	m.mu.Unlock()

	m.cfg.Logger.Info("session opened", zap.Int("user_id", id.ID), zap.String("email", id.Email))
	return nil
}

// Close saves and drops the session of userID and refuses its token until the
// next Open. Closing an id with no session only revokes it.
func (m *Manager) Close(ctx context.Context, userID int) error {
	if err := m.lockIdle(ctx, userID); err != nil {
		return err
	}
	s, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.revoked[userID] = struct{}{}
	if !ok {
		m.mu.Unlock()
		return nil
	}
	done := m.markClosingLocked(userID)
	m.mu.Unlock()

	m.shutdown(ctx, s)

	m.mu.Lock()
	m.finishClosingLocked(userID, done)
	m.mu.Unlock()

	m.cfg.Logger.Info("session closed", zap.Int("user_id", userID))
	return nil
}

// Get returns the session of id, opening one if the process has none. A token
// that outlived a restart therefore still reaches its saved records. A user
// who signed out gets ErrSignedOut.
func (m *Manager) Get(ctx context.Context, id user.Identity) (*Session, error) {
	if err := m.lockIdle(ctx, id.ID); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()
	if _, ok := m.revoked[id.ID]; ok {
		return nil, ErrSignedOut
	}
	if s, ok := m.sessions[id.ID]; ok {
		return s, nil
	}
	s := m.build(ctx, id)
	m.sessions[id.ID] = s
	m.cfg.Logger.Info("session restored from token", zap.Int("user_id", id.ID))
	return s, nil
}

// CloseAll saves and drops every open session.
func (m *Manager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	open := m.sessions
	m.sessions = make(map[int]*Session)
	m.mu.Unlock()

	for _, s := range open {
		m.shutdown(ctx, s)
	}
	if len(open) > 0 {
		m.cfg.Logger.Info("sessions flushed", zap.Int("count", len(open)))
	}
}

// lockIdle acquires m.mu once no session of userID is being closed. On success
// the caller holds the lock.
func (m *Manager) lockIdle(ctx context.Context, userID int) error {
	for {
		m.mu.Lock()
		done, busy := m.closing[userID]
		if !busy {
			return nil
		}
		m.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (m *Manager) markClosingLocked(userID int) chan struct{} {
	done := make(chan struct{})
	m.closing[userID] = done
	return done
}

func (m *Manager) finishClosingLocked(userID int, done chan struct{}) {
	delete(m.closing, userID)
	close(done)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) Cart(c *fiber.Ctx) (*cart.Store, error) {
	s, err := m.resolve(c)
	if err != nil {
		return nil, err
	}
	return s.Cart, nil
}

func (m *Manager) Account(c *fiber.Ctx) (*account.Store, error) {
	s, err := m.resolve(c)
	if err != nil {
		return nil, err
	}
	return s.Account, nil
}

func (m *Manager) History(c *fiber.Ctx) (order.History, error) {
	s, err := m.resolve(c)
	if err != nil {
		return nil, err
	}
	return s.Account, nil
}

func (m *Manager) Checkout(c *fiber.Ctx) (*checkout.Machine, error) {
	s, err := m.resolve(c)
	if err != nil {
		return nil, err
	}
	return s.Checkout, nil
}

func (m *Manager) resolve(c *fiber.Ctx) (*Session, error) {
	id, err := user.GetIdentityFromCtx(c)
	if err != nil {
		return nil, err
	}
	return m.Get(c.UserContext(), id)
}

func (m *Manager) build(ctx context.Context, id user.Identity) *Session {
	logger := m.cfg.Logger.With(zap.Int("user_id", id.ID))

	c := cart.NewStore(cart.NewPersistence(m.cfg.Records), m.cfg.Coupons, logger.Named("cart"), m.cfg.Cart)
	c.SetIdentity(ctx, id.ID)

	a := account.NewStore(m.cfg.Records, m.cfg.Factory, logger.Named("account"))
	a.Login(ctx, id)

	return &Session{
		Identity: id,
		Cart:     c,
		Account:  a,
		Checkout: checkout.NewMachine(c, a, m.cfg.Gateway, m.cfg.Publisher, logger.Named("checkout")),
	}
}

func (m *Manager) shutdown(ctx context.Context, s *Session) {
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.cfg.DrainTimeout)
	defer cancel()
	if err := s.Checkout.Close(drainCtx); err != nil {
		m.cfg.Logger.Warn("order placement still running at sign-out",
			zap.Int("user_id", s.Identity.ID), zap.Error(err))
	}
	s.Account.Logout(ctx)
	s.Cart.ClearIdentity()
}
