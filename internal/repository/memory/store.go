// Package memory keeps the whole marketplace in process memory. It backs
// STORE_DRIVER=memory for local runs and the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"farmconnect/internal/domain"
	"farmconnect/internal/repository"
)

type state struct {
	users    map[uint64]domain.User
	products map[uint64]domain.Product
	cart     map[uint64]domain.CartItem
	orders   map[uint64]domain.Order

	nextUserID      uint64
	nextProductID   uint64
	nextCartItemID  uint64
	nextOrderID     uint64
	nextOrderItemID uint64
}

func newState() *state {
	return &state{
		users:    make(map[uint64]domain.User),
		products: make(map[uint64]domain.Product),
		cart:     make(map[uint64]domain.CartItem),
		orders:   make(map[uint64]domain.Order),

		nextUserID:      1,
		nextProductID:   1,
		nextCartItemID:  1,
		nextOrderID:     1,
		nextOrderItemID: 1,
	}
}

func (s *state) clone() *state {
	c := *s
	c.users = make(map[uint64]domain.User, len(s.users))
	for k, v := range s.users {
		c.users[k] = v
	}
	c.products = make(map[uint64]domain.Product, len(s.products))
	for k, v := range s.products {
		c.products[k] = v
	}
	c.cart = make(map[uint64]domain.CartItem, len(s.cart))
	for k, v := range s.cart {
		c.cart[k] = v
	}
	c.orders = make(map[uint64]domain.Order, len(s.orders))
	for k, v := range s.orders {
		v.Items = append([]domain.OrderItem(nil), v.Items...)
		c.orders[k] = v
	}
	return &c
}

// Store implements repository.Store. A transaction works on a copy of the
// state and swaps it in on commit; other callers wait until it finishes.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
}

func NewStore() *Store {
	return &Store{st: newState(), now: time.Now}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Orders() repository.OrderRepository     { return &orderRepo{s: s} }
func (s *Store) Products() repository.ProductRepository { return &productRepo{s: s} }
func (s *Store) Carts() repository.CartRepository       { return &cartRepo{s: s} }
func (s *Store) Users() repository.UserRepository       { return &userRepo{s: s} }

func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &Store{st: s.st.clone(), now: s.now}
	if err := fn(tx); err != nil {
		return err
	}
	s.st = tx.st
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) with(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.st)
}
