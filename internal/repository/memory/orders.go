package memory

import (
	"context"
	"sort"

	"farmconnect/internal/domain"
)

type orderRepo struct {
	s *Store
}

func (r *orderRepo) Create(_ context.Context, order *domain.Order) error {
	r.s.with(func(st *state) {
		now := r.s.now()
		order.ID = st.nextOrderID
		st.nextOrderID++
		order.CreatedAt, order.UpdatedAt = now, now
		for i := range order.Items {
			order.Items[i].ID = st.nextOrderItemID
			order.Items[i].OrderID = order.ID
			st.nextOrderItemID++
		}
		stored := *order
		stored.Items = append([]domain.OrderItem(nil), order.Items...)
		st.orders[order.ID] = stored
	})
	return nil
}

func (r *orderRepo) FindByID(_ context.Context, id uint64) (*domain.Order, error) {
	var out *domain.Order
	r.s.with(func(st *state) {
		if o, ok := st.orders[id]; ok {
			o = st.withParties(o)
			out = &o
		}
	})
	return out, nil
}

func (r *orderRepo) ListByBuyer(_ context.Context, buyerID uint64) ([]domain.Order, error) {
	return r.list(func(o domain.Order) bool { return o.BuyerID == buyerID }), nil
}

func (r *orderRepo) ListByFarmer(_ context.Context, farmerID uint64, status domain.OrderStatus) ([]domain.Order, error) {
	return r.list(func(o domain.Order) bool {
		return o.FarmerID == farmerID && (status == "" || o.Status == status)
	}), nil
}

func (r *orderRepo) list(match func(domain.Order) bool) []domain.Order {
	var out []domain.Order
	r.s.with(func(st *state) {
		for _, o := range st.orders {
			if match(o) {
				out = append(out, st.withParties(o))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *orderRepo) UpdateStatus(_ context.Context, id uint64, from, next domain.OrderStatus) (bool, error) {
	var ok bool
	r.s.with(func(st *state) {
		o, found := st.orders[id]
		if !found || o.Status != from {
			return
		}
		o.Status = next
		o.UpdatedAt = r.s.now()
		st.orders[id] = o
		ok = true
	})
	return ok, nil
}

func (st *state) withParties(o domain.Order) domain.Order {
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	if u, ok := st.users[o.FarmerID]; ok {
		o.FarmerName, o.FarmerEmail = u.Name, u.Email
	}
	if u, ok := st.users[o.BuyerID]; ok {
		o.BuyerName, o.BuyerEmail = u.Name, u.Email
	}
	return o
}
