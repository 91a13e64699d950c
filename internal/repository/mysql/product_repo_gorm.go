package mysql

import (
	"context"
	"errors"
	"time"

	"farmconnect/internal/domain"
	"farmconnect/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepo struct {
	db   *gorm.DB
	lock bool
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	q := r.db.WithContext(ctx)
	if r.lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var p domain.Product
	if err := q.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) ListAvailable(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).Where("status = ?", domain.ProductAvailable)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		q = q.Where("title LIKE ?", "%"+f.Search+"%")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var out []domain.Product
	if err := q.Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productRepo) ListByFarmer(ctx context.Context, farmerID uint64) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productRepo) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) Save(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) SetStatus(ctx context.Context, productID, farmerID uint64, status domain.ProductStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ? AND farmer_id = ?", productID, farmerID).
		Update("status", status).Error
}

// MySQL applies SET assignments left to right, so status is computed from
// the quantity before the decrement.
const decrementStockSQL = `UPDATE products
SET status = CASE WHEN status = ? AND available_quantity = ? THEN ? ELSE status END,
	available_quantity = available_quantity - ?,
	updated_at = ?
WHERE id = ? AND available_quantity >= ?`

func (r *productRepo) DecrementStock(ctx context.Context, productID uint64, qty int64) (bool, error) {
	result := r.db.WithContext(ctx).Exec(decrementStockSQL,
		domain.ProductAvailable, qty, domain.ProductSoldOut,
		qty, time.Now(), productID, qty)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
