package services

import (
	"context"
	"strings"

	"farmconnect/internal/domain"
	"farmconnect/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductService struct {
	store repository.Store
}

func NewProductService(store repository.Store) *ProductService {
	return &ProductService{store: store}
}

type ProductInput struct {
	Title             string
	Description       string
	Category          string
	Unit              string
	Location          string
	PricePerKg        decimal.Decimal
	AvailableQuantity int64
}

// ProductUpdate changes only the fields that are set.
type ProductUpdate struct {
	Title             *string
	Description       *string
	Category          *string
	Location          *string
	PricePerKg        *decimal.Decimal
	AvailableQuantity *int64
	Status            *string
}

func (s *ProductService) Get(ctx context.Context, id uint64) (*domain.Product, error) {
	p, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *ProductService) ListAvailable(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Search = strings.TrimSpace(f.Search)
	products, err := s.store.Products().ListAvailable(ctx, f)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (s *ProductService) ListByFarmer(ctx context.Context, farmerID uint64) ([]domain.Product, error) {
	products, err := s.store.Products().ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (s *ProductService) Create(ctx context.Context, farmerID uint64, in ProductInput) (*domain.Product, error) {
	p := &domain.Product{
		FarmerID:          farmerID,
		Title:             strings.TrimSpace(in.Title),
		Description:       in.Description,
		Category:          strings.TrimSpace(in.Category),
		Unit:              strings.TrimSpace(in.Unit),
		Location:          in.Location,
		PricePerKg:        in.PricePerKg,
		AvailableQuantity: in.AvailableQuantity,
		Status:            domain.ProductAvailable,
	}
	if p.Unit == "" {
		p.Unit = "kg"
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	p.Status = stockStatus(p.Status, p.AvailableQuantity)
	if err := s.store.Products().Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update edits one of the farmer's listings. Farmers choose between
// available and inactive; sold_out follows the stock level. The row is read
// and written in one transaction so a concurrent checkout's decrement is not
// overwritten.
func (s *ProductService) Update(ctx context.Context, farmerID, productID uint64, in ProductUpdate) (*domain.Product, error) {
	var updated *domain.Product
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		p, err := owned(ctx, tx, farmerID, productID)
		if err != nil {
			return err
		}
		if err := applyUpdate(p, in); err != nil {
			return err
		}
		if err := tx.Products().Save(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func applyUpdate(p *domain.Product, in ProductUpdate) error {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Location != nil {
		p.Location = *in.Location
	}
	if in.PricePerKg != nil {
		p.PricePerKg = *in.PricePerKg
	}
	if in.AvailableQuantity != nil {
		p.AvailableQuantity = *in.AvailableQuantity
	}
	if in.Status != nil {
		st, err := domain.ParseProductStatus(*in.Status)
		if err != nil {
			return err
		}
		if st == domain.ProductSoldOut {
			return domain.Validationf("sold_out is set automatically when stock runs out")
		}
		p.Status = st
	}
	if err := validateProduct(p); err != nil {
		return err
	}
	p.Status = stockStatus(p.Status, p.AvailableQuantity)
	return nil
}

// Deactivate withdraws a listing. Only the status column is written. Buyers'
// cart rows for it are kept but no longer shown or checked out.
func (s *ProductService) Deactivate(ctx context.Context, farmerID, productID uint64) error {
	if _, err := owned(ctx, s.store, farmerID, productID); err != nil {
		return err
	}
	return s.store.Products().SetStatus(ctx, productID, farmerID, domain.ProductInactive)
}

func owned(ctx context.Context, store repository.Store, farmerID, productID uint64) (*domain.Product, error) {
	p, err := store.Products().FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.FarmerID != farmerID {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func validateProduct(p *domain.Product) error {
	switch {
	case p.Title == "":
		return domain.Validationf("title is required")
	case !p.PricePerKg.IsPositive():
		return domain.Validationf("price per kg must be greater than zero")
	case !p.PricePerKg.Equal(p.PricePerKg.Round(2)):
		return domain.Validationf("price per kg has at most two decimals")
	case p.AvailableQuantity < 0:
		return domain.Validationf("available quantity cannot be negative")
	}
	return nil
}

func stockStatus(st domain.ProductStatus, qty int64) domain.ProductStatus {
	switch {
	case st == domain.ProductAvailable && qty == 0:
		return domain.ProductSoldOut
	case st == domain.ProductSoldOut && qty > 0:
		return domain.ProductAvailable
	}
	return st
}
