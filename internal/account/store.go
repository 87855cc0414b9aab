// Package account holds what the storefront knows about the signed-in user:
// identity, saved addresses, the current checkout selections and order history.
// Each sub-resource is saved under its own record key.
package account

import (
	"context"
	"sync"

	"github.com/wichananm65/shopease/internal/address"
	"github.com/wichananm65/shopease/internal/order"
	"github.com/wichananm65/shopease/internal/payment"
	"github.com/wichananm65/shopease/internal/storage"
	"github.com/wichananm65/shopease/internal/user"
	"go.uber.org/zap"
)

const (
	addressesRecord = "addresses"
	ordersRecord    = "orders"
	paymentRecord   = "paymentMethod"
)

type Store struct {
	mu        sync.RWMutex
	records   storage.Store
	factory   *order.Factory
	logger    *zap.Logger
	identity  *user.Identity
	addresses address.Book
	selected  *address.Address
	payment   *payment.Method
	orders    []order.Order
}

func NewStore(records storage.Store, factory *order.Factory, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if factory == nil {
		factory = order.NewFactory(nil, nil)
	}
	return &Store{records: records, factory: factory, logger: logger}
}

// Login makes id the active identity and loads its records in one read. A user
// with no saved address record gets the Home and Work defaults; a saved empty
// book stays empty.
func (s *Store) Login(ctx context.Context, id user.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	s.identity = &id

	keys := []string{
		storage.Key(addressesRecord, id.ID),
		storage.Key(ordersRecord, id.ID),
		storage.Key(paymentRecord, id.ID),
	}
	found, readable := s.loadMany(ctx, keys)

	var book address.Book
	switch {
	case s.decode(found, keys[0], &book):
		s.addresses = book
	case readable:
		s.addresses = address.Book(address.Defaults(id.Name))
		s.saveAddresses(ctx)
	default:
		// the store is unreachable; keep the defaults in memory only so the
		// saved book is not overwritten
		s.addresses = address.Book(address.Defaults(id.Name))
	}
	if def, ok := s.addresses.Default(); ok {
		s.selected = &def
	}

	var orders []order.Order
	if s.decode(found, keys[1], &orders) {
		s.orders = orders
	}

	var m payment.Method
	if s.decode(found, keys[2], &m) && m.ID != "" {
		s.payment = &m
	}
}

// Logout saves the non-empty sub-resources and forgets everything in memory.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity != nil {
		if len(s.addresses) > 0 {
			s.saveAddresses(ctx)
		}
		if len(s.orders) > 0 {
			s.saveOrders(ctx)
		}
		if s.payment != nil {
			s.savePayment(ctx)
		}
	}
	s.reset()
}

func (s *Store) Identity() (user.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return user.Identity{}, false
	}
	return *s.identity, true
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

func (s *Store) Addresses() []address.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addresses.Clone()
}

func (s *Store) SelectedAddress() (address.Address, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return address.Address{}, false
	}
	return *s.selected, true
}

// AddAddress validates d, appends it and saves the book.
func (s *Store) AddAddress(ctx context.Context, d address.Draft) (address.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, a, err := s.addresses.Add(d)
	if err != nil {
		return address.Address{}, err
	}
	s.addresses = book
	s.saveAddresses(ctx)
	return a, nil
}

// UpdateAddress merges p into the address with id. Unknown ids change and save
// nothing and report address.ErrNotFound.
func (s *Store) UpdateAddress(ctx context.Context, id string, p address.Patch) (address.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, a, err := s.addresses.Update(id, p)
	if err != nil {
		return address.Address{}, err
	}
	s.addresses = book
	if s.selected != nil && s.selected.ID == id {
		s.selected = &a
	}
	s.saveAddresses(ctx)
	return a, nil
}

// DeleteAddress removes the address with id. If it was selected, the first
// remaining address becomes selected, or none.
func (s *Store) DeleteAddress(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, err := s.addresses.Delete(id)
	if err != nil {
		return err
	}
	s.addresses = book
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
		if len(book) > 0 {
			first := book[0]
			s.selected = &first
		}
	}
	s.saveAddresses(ctx)
	return nil
}

// SetSelectedAddress sets the checkout address. It is not checked against the book.
func (s *Store) SetSelectedAddress(a address.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &a
}

func (s *Store) PaymentMethod() (payment.Method, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.payment == nil {
		return payment.Method{}, false
	}
	return *s.payment, true
}

func (s *Store) SetPaymentMethod(ctx context.Context, m payment.Method) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payment = &m
	s.savePayment(ctx)
}

// AddOrder creates an order from d, puts it at the head of the history and
// saves the history.
func (s *Store) AddOrder(ctx context.Context, d order.Draft) order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.factory.Create(d)
	for s.hasOrder(o.ID) {
		o.ID = s.factory.NewID()
	}
	s.orders = append([]order.Order{o}, s.orders...)
	s.saveOrders(ctx)
	return o.Clone()
}

// Orders returns the history, most recent first.
func (s *Store) Orders() []order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]order.Order, len(s.orders))
	for i, o := range s.orders {
		out[i] = o.Clone()
	}
	return out
}

func (s *Store) Order(id string) (order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o.Clone(), nil
		}
	}
	return order.Order{}, order.ErrNotFound
}

func (s *Store) hasOrder(id string) bool {
	for _, o := range s.orders {
		if o.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) reset() {
	s.identity = nil
	s.addresses = nil
	s.selected = nil
	s.payment = nil
	s.orders = nil
}

// loadMany fetches keys in one round trip. The flag is false when the store
// could not be read.
func (s *Store) loadMany(ctx context.Context, keys []string) (map[string][]byte, bool) {
	if s.records == nil {
		return nil, true
	}
	found, err := s.records.GetMany(ctx, keys)
	if err != nil {
		s.logger.Warn("failed to load records", zap.Strings("keys", keys), zap.Error(err))
		return nil, false
	}
	return found, true
}

func (s *Store) decode(found map[string][]byte, key string, v any) bool {
	ok, err := storage.DecodeJSON(found, key, v)
	if err != nil {
		s.logger.Warn("failed to decode record", zap.String("key", key), zap.Error(err))
		return false
	}
	return ok
}

func (s *Store) save(ctx context.Context, resource string, v any) {
	if s.identity == nil || s.records == nil {
		return
	}
	key := storage.Key(resource, s.identity.ID)
	if err := storage.PutJSON(ctx, s.records, key, v); err != nil {
		s.logger.Error("failed to save record", zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) saveAddresses(ctx context.Context) { s.save(ctx, addressesRecord, s.addresses) }
func (s *Store) saveOrders(ctx context.Context) { s.save(ctx, ordersRecord, s.orders) }
func (s *Store) savePayment(ctx context.Context) { s.save(ctx, paymentRecord, s.payment) }
