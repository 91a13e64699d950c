package mysql

import (
	"context"
	"errors"
	"os"
	"testing"

	"farmconnect/internal/domain"
	infradb "farmconnect/internal/infra/mysql"
	"farmconnect/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a disposable MySQL database, e.g.
// TEST_MYSQL_DSN="root:secret@tcp(127.0.0.1:3306)/farmconnect_test?parseTime=true"
func newTestStore(t *testing.T) repository.Store {
	t.Helper()
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}
	db, err := infradb.NewMySQL(infradb.Options{DSN: dsn, MaxOpenConns: 5, MaxIdleConns: 2})
	require.NoError(t, err)
	require.NoError(t, infradb.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewStore(db)
}

func seedUser(t *testing.T, s repository.Store, role domain.Role) domain.User {
	t.Helper()
	u := domain.User{FirebaseUID: uuid.NewString(), Name: string(role) + " test", Role: role}
	require.NoError(t, s.Users().Create(context.Background(), &u))
	return u
}

func TestMySQLStore_CheckoutPrimitives(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	buyer := seedUser(t, s, domain.RoleBuyer)
	farmer := seedUser(t, s, domain.RoleFarmer)

	p := domain.Product{FarmerID: farmer.ID, Title: "Teff", Unit: "kg", PricePerKg: decimal.RequireFromString("45.50"),
		AvailableQuantity: 5, Status: domain.ProductAvailable}
	require.NoError(t, s.Products().Create(ctx, &p))

	require.NoError(t, s.Carts().AddQuantity(ctx, buyer.ID, p.ID, 2))
	require.NoError(t, s.Carts().AddQuantity(ctx, buyer.ID, p.ID, 1))
	lines, err := s.Carts().ListAvailable(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(3), lines[0].Quantity)
	assert.Equal(t, farmer.Name, lines[0].FarmerName)

	boom := errors.New("boom")
	err = s.Transaction(ctx, func(tx repository.Store) error {
		locked, err := tx.Carts().ListAvailable(ctx, buyer.ID)
		if err != nil {
			return err
		}
		o := domain.FarmerGroup{FarmerID: farmer.ID, Lines: locked}.NewOrder(buyer.ID,
			domain.CheckoutInput{ShippingAddress: "Bole", PhoneNumber: "0911"}, domain.PaymentCashOnDelivery)
		if err := tx.Orders().Create(ctx, o); err != nil {
			return err
		}
		if ok, err := tx.Products().DecrementStock(ctx, p.ID, 3); err != nil || !ok {
			return errors.New("decrement failed")
		}
		if err := tx.Carts().Clear(ctx, buyer.ID); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.AvailableQuantity)
	orders, err := s.Orders().ListByBuyer(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, orders)

	ok, err := s.Products().DecrementStock(ctx, p.ID, 6)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Products().DecrementStock(ctx, p.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)
	got, err = s.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.AvailableQuantity)
	assert.Equal(t, domain.ProductSoldOut, got.Status)

	require.NoError(t, s.Products().SetStatus(ctx, p.ID, farmer.ID, domain.ProductInactive))
	got, err = s.Products().FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProductInactive, got.Status)
	assert.Equal(t, int64(0), got.AvailableQuantity)
}

func TestMySQLStore_UpdateStatusIsConditional(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	buyer := seedUser(t, s, domain.RoleBuyer)
	farmer := seedUser(t, s, domain.RoleFarmer)

	o := &domain.Order{BuyerID: buyer.ID, FarmerID: farmer.ID, TotalAmount: decimal.NewFromInt(10),
		Status: domain.StatusPending, ShippingAddress: "Adama", PhoneNumber: "0911", PaymentMethod: domain.PaymentTelebirr}
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
	assert.Equal(t, buyer.Name, got.BuyerName)
}

func TestMySQLStore_DuplicateUser(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s, domain.RoleBuyer)
	err := s.Users().Create(context.Background(), &domain.User{FirebaseUID: u.FirebaseUID, Name: "dup", Role: domain.RoleBuyer})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
