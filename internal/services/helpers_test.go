package services

import (
	"context"
	"errors"
	"testing"

	"farmconnect/internal/domain"
	"farmconnect/internal/repository"
	"farmconnect/internal/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store   *memory.Store
	buyer   domain.User
	farmer1 domain.User
	farmer2 domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memory.NewStore()}
	f.buyer = f.user(t, "uid-buyer", "Almaz Buyer", domain.RoleBuyer)
	f.farmer1 = f.user(t, "uid-farmer-1", "Kebede Farm", domain.RoleFarmer)
	f.farmer2 = f.user(t, "uid-farmer-2", "Tigist Farm", domain.RoleFarmer)
	return f
}

func (f *fixture) user(t *testing.T, uid, name string, role domain.Role) domain.User {
	t.Helper()
	u := &domain.User{FirebaseUID: uid, Name: name, Email: uid + "@example.et", Role: role}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return *u
}

func (f *fixture) product(t *testing.T, farmerID uint64, title, price string, qty int64) domain.Product {
	t.Helper()
	p := &domain.Product{
		FarmerID:          farmerID,
		Title:             title,
		PricePerKg:        decimal.RequireFromString(price),
		AvailableQuantity: qty,
		Status:            domain.ProductAvailable,
		Unit:              "kg",
	}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return *p
}

func (f *fixture) stock(t *testing.T, productID uint64) int64 {
	t.Helper()
	p, err := f.store.Products().FindByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.AvailableQuantity
}

func (f *fixture) setStatus(t *testing.T, productID uint64, st domain.ProductStatus) {
	t.Helper()
	ctx := context.Background()
	p, err := f.store.Products().FindByID(ctx, productID)
	require.NoError(t, err)
	p.Status = st
	require.NoError(t, f.store.Products().Save(ctx, p))
}

func (f *fixture) addToCart(t *testing.T, userID, productID uint64, qty int64) {
	t.Helper()
	require.NoError(t, NewCartService(f.store).AddToCart(context.Background(), userID, productID, qty))
}

var errSimulated = errors.New("simulated constraint violation")

// failingStore fails the stock decrement of one product, inside or outside
// a transaction.
type failingStore struct {
	repository.Store
	failProduct uint64
}

func (s *failingStore) Products() repository.ProductRepository {
	return &failingProducts{ProductRepository: s.Store.Products(), failProduct: s.failProduct}
}

func (s *failingStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.Transaction(ctx, func(tx repository.Store) error {
		return fn(&failingStore{Store: tx, failProduct: s.failProduct})
	})
}

type failingProducts struct {
	repository.ProductRepository
	failProduct uint64
}

func (p *failingProducts) DecrementStock(ctx context.Context, productID uint64, qty int64) (bool, error) {
	if productID == p.failProduct {
		return false, errSimulated
	}
	return p.ProductRepository.DecrementStock(ctx, productID, qty)
}
