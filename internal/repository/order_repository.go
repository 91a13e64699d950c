package repository

import (
	"context"

	"farmconnect/internal/domain"
)

// Finders return (nil, nil) when the row does not exist.

type OrderRepository interface {
	// Create inserts the order together with its items.
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	ListByBuyer(ctx context.Context, buyerID uint64) ([]domain.Order, error)
	ListByFarmer(ctx context.Context, farmerID uint64, status domain.OrderStatus) ([]domain.Order, error)
	// UpdateStatus moves the order to next only if it is still in from.
	UpdateStatus(ctx context.Context, id uint64, from, next domain.OrderStatus) (bool, error)
}

type ProductFilter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}

type ProductRepository interface {
	// FindByID locks the row when called inside a transaction.
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	ListAvailable(ctx context.Context, f ProductFilter) ([]domain.Product, error)
	ListByFarmer(ctx context.Context, farmerID uint64) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	// Save writes the whole row, stock included. Only call it on a row read
	// in the same transaction.
	Save(ctx context.Context, p *domain.Product) error
	// SetStatus changes the status of the farmer's product and nothing else.
	SetStatus(ctx context.Context, productID, farmerID uint64, status domain.ProductStatus) error
	// DecrementStock subtracts qty only when at least qty is available and
	// reports whether it did. An available product that reaches zero becomes
	// sold_out.
	DecrementStock(ctx context.Context, productID uint64, qty int64) (bool, error)
}

type CartRepository interface {
	FindItem(ctx context.Context, userID, itemID uint64) (*domain.CartItem, error)
	FindByProduct(ctx context.Context, userID, productID uint64) (*domain.CartItem, error)
	// AddQuantity inserts the (user, product) row or adds qty to it.
	AddQuantity(ctx context.Context, userID, productID uint64, qty int64) error
	SetQuantity(ctx context.Context, userID, itemID uint64, qty int64) error
	Delete(ctx context.Context, userID, itemID uint64) (bool, error)
	Clear(ctx context.Context, userID uint64) error
	// ListAvailable returns the user's rows whose product is available.
	// Inside a transaction the rows are locked.
	ListAvailable(ctx context.Context, userID uint64) ([]domain.CartLine, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	FindByFirebaseUID(ctx context.Context, uid string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []uint64) (map[uint64]domain.User, error)
	Create(ctx context.Context, u *domain.User) error
}

// Store groups the repositories over one database handle.
type Store interface {
	Orders() OrderRepository
	Products() ProductRepository
	Carts() CartRepository
	Users() UserRepository
	// Transaction runs fn against a Store bound to a single transaction,
	// committing when fn returns nil and rolling back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
}
