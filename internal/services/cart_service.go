package services

import (
	"context"
	"fmt"

	"farmconnect/internal/domain"
	"farmconnect/internal/repository"
)

var (
	ErrProductNotFound  = fmt.Errorf("product %w", domain.ErrNotFound)
	ErrCartItemNotFound = fmt.Errorf("cart item %w", domain.ErrNotFound)
)

// CartService keeps one row per (user, product) and checks every quantity
// against the product's live stock. The check and the write are separate
// statements; checkout re-checks stock when it decrements.
type CartService struct {
	store repository.Store
}

func NewCartService(store repository.Store) *CartService {
	return &CartService{store: store}
}

// GetCart lists the items whose product is still on sale. Rows for
// withdrawn products stay in the table but are not shown.
func (s *CartService) GetCart(ctx context.Context, userID uint64) (*domain.Cart, error) {
	lines, err := s.store.Carts().ListAvailable(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.NewCart(lines), nil
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID uint64, quantity int64) error {
	if quantity <= 0 {
		return domain.Validationf("quantity must be greater than zero")
	}
	p, err := s.availableProduct(ctx, productID)
	if err != nil {
		return err
	}
	if p.FarmerID == userID {
		return domain.Validationf("cannot buy your own listing %q", p.Title)
	}

	existing, err := s.store.Carts().FindByProduct(ctx, userID, productID)
	if err != nil {
		return err
	}
	total := quantity
	if existing != nil {
		total += existing.Quantity
	}
	if err := checkStock(p, total); err != nil {
		return err
	}
	return s.store.Carts().AddQuantity(ctx, userID, productID, quantity)
}

// UpdateCartItem sets the quantity of one of the user's items. A quantity of
// zero or less removes the item.
func (s *CartService) UpdateCartItem(ctx context.Context, userID, itemID uint64, quantity int64) error {
	item, err := s.store.Carts().FindItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrCartItemNotFound
	}
	if quantity <= 0 {
		_, err := s.store.Carts().Delete(ctx, userID, itemID)
		return err
	}

	p, err := s.store.Products().FindByID(ctx, item.ProductID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProductNotFound
	}
	if err := checkStock(p, quantity); err != nil {
		return err
	}
	return s.store.Carts().SetQuantity(ctx, userID, itemID, quantity)
}

func (s *CartService) RemoveFromCart(ctx context.Context, userID, itemID uint64) error {
	deleted, err := s.store.Carts().Delete(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCartItemNotFound
	}
	return nil
}

// ClearCart succeeds on an empty cart.
func (s *CartService) ClearCart(ctx context.Context, userID uint64) error {
	return s.store.Carts().Clear(ctx, userID)
}

func (s *CartService) availableProduct(ctx context.Context, productID uint64) (*domain.Product, error) {
	p, err := s.store.Products().FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Status != domain.ProductAvailable {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func checkStock(p *domain.Product, want int64) error {
	if want > p.AvailableQuantity {
		return fmt.Errorf("%w: only %d %s of %q available", domain.ErrInsufficientStock, p.AvailableQuantity, p.Unit, p.Title)
	}
	return nil
}
