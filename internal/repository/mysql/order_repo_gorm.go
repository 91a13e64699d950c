package mysql

import (
	"context"
	"errors"
	"log"

	"farmconnect/internal/domain"

	"gorm.io/gorm"
)

type orderRepo struct {
	db    *gorm.DB
	users *userRepo
}

func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	result := r.db.WithContext(ctx).Create(order)
	if result.Error != nil {
		log.Printf("order create error: %v", result.Error)
		return result.Error
	}
	if order.ID == 0 {
		return errors.New("failed to assign order ID")
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("FindByID error: %v", err)
		return nil, err
	}
	orders := []domain.Order{o}
	if err := r.fillParties(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *orderRepo) ListByBuyer(ctx context.Context, buyerID uint64) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		log.Printf("ListByBuyer error: %v", err)
		return nil, err
	}
	return out, r.fillParties(ctx, out)
}

func (r *orderRepo) ListByFarmer(ctx context.Context, farmerID uint64, status domain.OrderStatus) ([]domain.Order, error) {
	q := r.db.WithContext(ctx).Preload("Items").Where("farmer_id = ?", farmerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []domain.Order
	if err := q.Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		log.Printf("ListByFarmer error: %v", err)
		return nil, err
	}
	return out, r.fillParties(ctx, out)
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uint64, from, next domain.OrderStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", next)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// fillParties copies buyer and farmer display fields onto the orders.
func (r *orderRepo) fillParties(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	seen := make(map[uint64]struct{})
	var ids []uint64
	for _, o := range orders {
		for _, id := range []uint64{o.BuyerID, o.FarmerID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	users, err := r.users.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range orders {
		if u, ok := users[orders[i].FarmerID]; ok {
			orders[i].FarmerName, orders[i].FarmerEmail = u.Name, u.Email
		}
		if u, ok := users[orders[i].BuyerID]; ok {
			orders[i].BuyerName, orders[i].BuyerEmail = u.Name, u.Email
		}
	}
	return nil
}
