package memory

import (
	"context"
	"errors"
	"testing"

	"farmconnect/internal/domain"
	"farmconnect/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *Store) (buyer, farmer domain.User, p domain.Product) {
	t.Helper()
	ctx := context.Background()
	buyer = domain.User{FirebaseUID: "b", Name: "Buyer", Role: domain.RoleBuyer}
	farmer = domain.User{FirebaseUID: "f", Name: "Farmer", Role: domain.RoleFarmer}
	require.NoError(t, s.Users().Create(ctx, &buyer))
	require.NoError(t, s.Users().Create(ctx, &farmer))
	p = domain.Product{FarmerID: farmer.ID, Title: "Teff", PricePerKg: decimal.NewFromInt(10), AvailableQuantity: 5}
	require.NoError(t, s.Products().Create(ctx, &p))
	return buyer, farmer, p
}

func TestStore_TransactionRollsBack(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	buyer, farmer, p := seed(t, s)
	require.NoError(t, s.Carts().AddQuantity(ctx, buyer.ID, p.ID, 2))

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx repository.Store) error {
		ok, err := tx.Products().DecrementStock(ctx, p.ID, 2)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, tx.Orders().Create(ctx, &domain.Order{BuyerID: buyer.ID, FarmerID: farmer.ID, Status: domain.StatusPending}))
		require.NoError(t, tx.Carts().Clear(ctx, buyer.ID))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.AvailableQuantity)
	orders, err := s.Orders().ListByBuyer(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)
	lines, err := s.Carts().ListAvailable(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestStore_TransactionCommits(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	buyer, farmer, p := seed(t, s)

	var orderID uint64
	err := s.Transaction(ctx, func(tx repository.Store) error {
		o := &domain.Order{BuyerID: buyer.ID, FarmerID: farmer.ID, Status: domain.StatusPending,
			Items: []domain.OrderItem{{ProductID: p.ID, Quantity: 1}}}
		if err := tx.Orders().Create(ctx, o); err != nil {
			return err
		}
		orderID = o.ID
		_, err := tx.Products().DecrementStock(ctx, p.ID, 1)
		return err
	})
	require.NoError(t, err)

	o, err := s.Orders().FindByID(ctx, orderID)
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, "Farmer", o.FarmerName)
	assert.Equal(t, "Buyer", o.BuyerName)
	require.Len(t, o.Items, 1)
	assert.Equal(t, orderID, o.Items[0].OrderID)
}

func TestStore_DecrementStockIsConditional(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_, _, p := seed(t, s)

	ok, err := s.Products().DecrementStock(ctx, p.ID, 6)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Products().DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err := s.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProductAvailable, got.Status)

	ok, err = s.Products().DecrementStock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err = s.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.AvailableQuantity)
	assert.Equal(t, domain.ProductSoldOut, got.Status)

	ok, err = s.Products().DecrementStock(ctx, 999, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_UpdateStatusIsConditional(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	buyer, farmer, _ := seed(t, s)
	o := &domain.Order{BuyerID: buyer.ID, FarmerID: farmer.ID, Status: domain.StatusPending}
	require.NoError(t, s.Orders().Create(ctx, o))

	ok, err := s.Orders().UpdateStatus(ctx, o.ID, domain.StatusPending, domain.StatusConfirmed)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Orders().UpdateStatus(ctx, o.ID, domain.StatusPending, domain.StatusCancelled)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.Orders().FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)

	missing, err := s.Orders().FindByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_UserUIDIsUnique(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seed(t, s)
	err := s.Users().Create(ctx, &domain.User{FirebaseUID: "b", Name: "Again"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestStore_TransactionHonoursCancelledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := s.Transaction(ctx, func(repository.Store) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStore_SetStatusOnlyTouchesOwnedStatus(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	buyer, farmer, p := seed(t, s)

	require.NoError(t, s.Products().SetStatus(ctx, p.ID, buyer.ID, domain.ProductInactive))
	got, err := s.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProductAvailable, got.Status)

	ok, err := s.Products().DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, s.Products().SetStatus(ctx, p.ID, farmer.ID, domain.ProductInactive))
	got, err = s.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProductInactive, got.Status)
	assert.Equal(t, int64(3), got.AvailableQuantity)
}
