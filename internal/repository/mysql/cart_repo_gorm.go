package mysql

import (
	"context"
	"errors"

	"farmconnect/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepo struct {
	db   *gorm.DB
	lock bool
}

func (r *cartRepo) FindItem(ctx context.Context, userID, itemID uint64) (*domain.CartItem, error) {
	return r.first(ctx, "id = ? AND user_id = ?", itemID, userID)
}

func (r *cartRepo) FindByProduct(ctx context.Context, userID, productID uint64) (*domain.CartItem, error) {
	return r.first(ctx, "user_id = ? AND product_id = ?", userID, productID)
}

func (r *cartRepo) first(ctx context.Context, query string, args ...any) (*domain.CartItem, error) {
	var item domain.CartItem
	if err := r.db.WithContext(ctx).Where(query, args...).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *cartRepo) AddQuantity(ctx context.Context, userID, productID uint64, qty int64) error {
	item := domain.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr("quantity + ?", qty),
		}),
	}).Create(&item).Error
}

func (r *cartRepo) SetQuantity(ctx context.Context, userID, itemID uint64, qty int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("quantity", qty).Error
}

func (r *cartRepo) Delete(ctx context.Context, userID, itemID uint64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&domain.CartItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *cartRepo) Clear(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.CartItem{}).Error
}

func (r *cartRepo) ListAvailable(ctx context.Context, userID uint64) ([]domain.CartLine, error) {
	q := r.db.WithContext(ctx).
		Table("cart_items AS ci").
		Select(`ci.id, ci.product_id, ci.quantity, ci.added_at,
			p.title, p.unit, p.price_per_kg, p.available_quantity, p.farmer_id,
			COALESCE(u.name, '') AS farmer_name`).
		Joins("JOIN products p ON p.id = ci.product_id").
		Joins("LEFT JOIN users u ON u.id = p.farmer_id").
		Where("ci.user_id = ? AND p.status = ?", userID, domain.ProductAvailable).
		Order("ci.added_at ASC, ci.id ASC")
	if r.lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var lines []domain.CartLine
	if err := q.Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}
