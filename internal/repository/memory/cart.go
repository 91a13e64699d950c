package memory

import (
	"context"
	"sort"

	"farmconnect/internal/domain"
)

type cartRepo struct {
	s *Store
}

func (r *cartRepo) FindItem(_ context.Context, userID, itemID uint64) (*domain.CartItem, error) {
	var out *domain.CartItem
	r.s.with(func(st *state) {
		if it, ok := st.cart[itemID]; ok && it.UserID == userID {
			out = &it
		}
	})
	return out, nil
}

func (r *cartRepo) FindByProduct(_ context.Context, userID, productID uint64) (*domain.CartItem, error) {
	var out *domain.CartItem
	r.s.with(func(st *state) {
		if it, ok := st.findByProduct(userID, productID); ok {
			out = &it
		}
	})
	return out, nil
}

func (st *state) findByProduct(userID, productID uint64) (domain.CartItem, bool) {
	for _, it := range st.cart {
		if it.UserID == userID && it.ProductID == productID {
			return it, true
		}
	}
	return domain.CartItem{}, false
}

func (r *cartRepo) AddQuantity(_ context.Context, userID, productID uint64, qty int64) error {
	r.s.with(func(st *state) {
		if it, ok := st.findByProduct(userID, productID); ok {
			it.Quantity += qty
			st.cart[it.ID] = it
			return
		}
		it := domain.CartItem{
			ID:        st.nextCartItemID,
			UserID:    userID,
			ProductID: productID,
			Quantity:  qty,
			AddedAt:   r.s.now(),
		}
		st.nextCartItemID++
		st.cart[it.ID] = it
	})
	return nil
}

func (r *cartRepo) SetQuantity(_ context.Context, userID, itemID uint64, qty int64) error {
	r.s.with(func(st *state) {
		if it, ok := st.cart[itemID]; ok && it.UserID == userID {
			it.Quantity = qty
			st.cart[itemID] = it
		}
	})
	return nil
}

func (r *cartRepo) Delete(_ context.Context, userID, itemID uint64) (bool, error) {
	var deleted bool
	r.s.with(func(st *state) {
		if it, ok := st.cart[itemID]; ok && it.UserID == userID {
			delete(st.cart, itemID)
			deleted = true
		}
	})
	return deleted, nil
}

func (r *cartRepo) Clear(_ context.Context, userID uint64) error {
	r.s.with(func(st *state) {
		for id, it := range st.cart {
			if it.UserID == userID {
				delete(st.cart, id)
			}
		}
	})
	return nil
}

func (r *cartRepo) ListAvailable(_ context.Context, userID uint64) ([]domain.CartLine, error) {
	var lines []domain.CartLine
	r.s.with(func(st *state) {
		for _, it := range st.cart {
			if it.UserID != userID {
				continue
			}
			p, ok := st.products[it.ProductID]
			if !ok || p.Status != domain.ProductAvailable {
				continue
			}
			lines = append(lines, domain.CartLine{
				ID:                it.ID,
				ProductID:         it.ProductID,
				Quantity:          it.Quantity,
				AddedAt:           it.AddedAt,
				Title:             p.Title,
				Unit:              p.Unit,
				PricePerKg:        p.PricePerKg,
				AvailableQuantity: p.AvailableQuantity,
				FarmerID:          p.FarmerID,
				FarmerName:        st.users[p.FarmerID].Name,
			})
		}
	})
	sort.Slice(lines, func(i, j int) bool {
		if !lines[i].AddedAt.Equal(lines[j].AddedAt) {
			return lines[i].AddedAt.Before(lines[j].AddedAt)
		}
		return lines[i].ID < lines[j].ID
	})
	return lines, nil
}
