// Package checkout drives the Address → Payment → Review flow and turns a
// reviewed cart into an order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wichananm65/shopease/internal/address"
	"github.com/wichananm65/shopease/internal/cart"
	"github.com/wichananm65/shopease/internal/coupon"
	"github.com/wichananm65/shopease/internal/order"
	"github.com/wichananm65/shopease/internal/payment"
	"github.com/wichananm65/shopease/internal/pricing"
	"github.com/wichananm65/shopease/internal/user"
	"go.uber.org/zap"
)

type Step int

const (
	StepAddress Step = iota + 1
	StepPayment
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepAddress:
		return "address"
	case StepPayment:
		return "payment"
	case StepReview:
		return "review"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

var (
	ErrEmptyCart           = errors.New("your cart is empty")
	ErrNotAtReview         = errors.New("order can only be placed from the review step")
	ErrAddressRequired     = errors.New("please select a delivery address")
	ErrPaymentRequired     = errors.New("please select a payment method")
	ErrPlacementInProgress = errors.New("order placement already in progress")
	ErrClosed              = errors.New("checkout session has ended")
)

type Cart interface {
	Snapshot() cart.State
	Clear(ctx context.Context)
}

type Account interface {
	Identity() (user.Identity, bool)
	SelectedAddress() (address.Address, bool)
	PaymentMethod() (payment.Method, bool)
	AddOrder(ctx context.Context, d order.Draft) order.Order
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, userID int, o order.Order) error
}

// Machine is the checkout flow of one session.
type Machine struct {
	mu        sync.Mutex
	cart      Cart
	account   Account
	gateway   order.Gateway
	publisher Publisher
	logger    *zap.Logger
	step      Step
	placing   bool
	// done is closed when the in-flight placement finishes.
	done   chan struct{}
	closed bool
}

func NewMachine(c Cart, a Account, gateway order.Gateway, publisher Publisher, logger *zap.Logger) *Machine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gateway == nil {
		gateway = order.SimulatedGateway{}
	}
	return &Machine{
		cart:      c,
		account:   a,
		gateway:   gateway,
		publisher: publisher,
		logger:    logger,
		step:      StepAddress,
	}
}

// View is what the checkout page renders.
type View struct {
	Step          Step             `json:"step"`
	StepName      string           `json:"stepName"`
	CanAdvance    bool             `json:"canAdvance"`
	Placing       bool             `json:"placing"`
	Items         []cart.LineItem  `json:"items"`
	Coupon        *coupon.Coupon   `json:"coupon"`
	Totals        pricing.Totals   `json:"totals"`
	Address       *address.Address `json:"address"`
	PaymentMethod *payment.Method  `json:"paymentMethod"`
}

// Enter starts checkout at the address step.
func (m *Machine) Enter() (Step, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.guardLocked(); err != nil {
		return m.step, err
	}
	m.step = StepAddress
	return m.step, nil
}

func (m *Machine) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

func (m *Machine) CanAdvance() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.canAdvanceLocked()
}

// Next moves one step forward when the current step is complete. An
// incomplete step leaves the machine where it is without an error.
func (m *Machine) Next() (Step, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.guardLocked(); err != nil {
		return m.step, err
	}
	if m.canAdvanceLocked() {
		m.step++
	}
	return m.step, nil
}

// Back moves one step backwards. Selections are kept.
func (m *Machine) Back() (Step, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.guardLocked(); err != nil {
		return m.step, err
	}
	if m.step > StepAddress {
		m.step--
	}
	return m.step, nil
}

func (m *Machine) View() (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := m.cart.Snapshot()
	if len(state.Items) == 0 {
		return View{}, ErrEmptyCart
	}
	v := View{
		Step:       m.step,
		StepName:   m.step.String(),
		CanAdvance: m.canAdvanceLocked(),
		Placing:    m.placing,
		Items:      state.Items,
		Coupon:     state.Coupon,
		Totals:     state.Totals(),
	}
	if a, ok := m.account.SelectedAddress(); ok {
		v.Address = &a
	}
	if pm, ok := m.account.PaymentMethod(); ok {
		v.PaymentMethod = &pm
	}
	return v, nil
}

// PlaceOrder submits the reviewed cart and records the order. The lock is not
// held while the gateway runs; a second call in that window fails with
// ErrPlacementInProgress. Once the gateway accepts, the order is committed even
// if ctx is cancelled afterwards.
func (m *Machine) PlaceOrder(ctx context.Context) (order.Order, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return order.Order{}, ErrClosed
	}
	if m.placing {
		m.mu.Unlock()
		return order.Order{}, ErrPlacementInProgress
	}
	state := m.cart.Snapshot()
	if len(state.Items) == 0 {
		m.mu.Unlock()
		return order.Order{}, ErrEmptyCart
	}
	if m.step != StepReview {
		m.mu.Unlock()
		return order.Order{}, ErrNotAtReview
	}
	addr, ok := m.account.SelectedAddress()
	if !ok {
		m.mu.Unlock()
		return order.Order{}, ErrAddressRequired
	}
	pm, ok := m.account.PaymentMethod()
	if !ok {
		m.mu.Unlock()
		return order.Order{}, ErrPaymentRequired
	}
	draft := order.Draft{
		Items:         state.Items,
		Address:       addr,
		PaymentMethod: pm.ID,
		Totals:        state.Totals(),
		Coupon:        state.Coupon,
	}
	m.placing = true
	m.done = make(chan struct{})
	m.mu.Unlock()

	if err := m.gateway.Submit(ctx, draft); err != nil {
		m.finish(false)
		return order.Order{}, fmt.Errorf("submit order: %w", err)
	}

	commitCtx := context.WithoutCancel(ctx)
	o := m.account.AddOrder(commitCtx, draft)
	m.cart.Clear(commitCtx)
	m.publish(commitCtx, o)
	m.finish(true)

	m.logger.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("total", o.Total.StringFixed(2)),
		zap.Int("items", o.ItemCount()))
	return o, nil
}

func (m *Machine) finish(placed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if placed {
		m.step = StepAddress
	}
	m.placing = false
	close(m.done)
	m.done = nil
}

// Close stops new placements and waits for one already past the gateway
// check to finish committing. Later PlaceOrder calls fail with ErrClosed.
func (m *Machine) Close(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	done := m.done
	m.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Machine) publish(ctx context.Context, o order.Order) {
	if m.publisher == nil {
		return
	}
	var userID int
	if id, ok := m.account.Identity(); ok {
		userID = id.ID
	}
	if err := m.publisher.PublishOrderPlaced(ctx, userID, o); err != nil {
		m.logger.Warn("failed to publish order placed event", zap.String("order_id", o.ID), zap.Error(err))
	}
}

func (m *Machine) guardLocked() error {
	if m.placing {
		return ErrPlacementInProgress
	}
	if len(m.cart.Snapshot().Items) == 0 {
		return ErrEmptyCart
	}
	return nil
}

func (m *Machine) canAdvanceLocked() bool {
	switch m.step {
	case StepAddress:
		_, ok := m.account.SelectedAddress()
		return ok
	case StepPayment:
		_, ok := m.account.PaymentMethod()
		return ok
	default:
		return false
	}
}
