package memory

import (
	"context"
	"sort"
	"strings"

	"farmconnect/internal/domain"
	"farmconnect/internal/repository"
)

type productRepo struct {
	s *Store
}

func (r *productRepo) FindByID(_ context.Context, id uint64) (*domain.Product, error) {
	var out *domain.Product
	r.s.with(func(st *state) {
		if p, ok := st.products[id]; ok {
			out = &p
		}
	})
	return out, nil
}

func (r *productRepo) ListAvailable(_ context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	r.s.with(func(st *state) {
		for _, p := range st.products {
			if p.Status != domain.ProductAvailable {
				continue
			}
			if f.Category != "" && p.Category != f.Category {
				continue
			}
			if f.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Search)) {
				continue
			}
			out = append(out, p)
		}
	})
	sortProducts(out)
	if f.Limit > 0 {
		if f.Offset >= len(out) {
			return nil, nil
		}
		out = out[f.Offset:min(len(out), f.Offset+f.Limit)]
	}
	return out, nil
}

func (r *productRepo) ListByFarmer(_ context.Context, farmerID uint64) ([]domain.Product, error) {
	var out []domain.Product
	r.s.with(func(st *state) {
		for _, p := range st.products {
			if p.FarmerID == farmerID {
				out = append(out, p)
			}
		}
	})
	sortProducts(out)
	return out, nil
}

func (r *productRepo) Create(_ context.Context, p *domain.Product) error {
	r.s.with(func(st *state) {
		p.ID = st.nextProductID
		st.nextProductID++
		p.CreatedAt = r.s.now()
		p.UpdatedAt = p.CreatedAt
		if p.Unit == "" {
			p.Unit = "kg"
		}
		if p.Status == "" {
			p.Status = domain.ProductAvailable
		}
		st.products[p.ID] = *p
	})
	return nil
}

func (r *productRepo) Save(_ context.Context, p *domain.Product) error {
	var err error
	r.s.with(func(st *state) {
		if _, ok := st.products[p.ID]; !ok {
			err = domain.ErrNotFound
			return
		}
		p.UpdatedAt = r.s.now()
		st.products[p.ID] = *p
	})
	return err
}

func (r *productRepo) SetStatus(_ context.Context, productID, farmerID uint64, status domain.ProductStatus) error {
	r.s.with(func(st *state) {
		p, ok := st.products[productID]
		if !ok || p.FarmerID != farmerID {
			return
		}
		p.Status = status
		p.UpdatedAt = r.s.now()
		st.products[productID] = p
	})
	return nil
}

func (r *productRepo) DecrementStock(_ context.Context, productID uint64, qty int64) (bool, error) {
	var ok bool
	r.s.with(func(st *state) {
		p, found := st.products[productID]
		if !found || p.AvailableQuantity < qty {
			return
		}
		p.AvailableQuantity -= qty
		if p.AvailableQuantity == 0 && p.Status == domain.ProductAvailable {
			p.Status = domain.ProductSoldOut
		}
		p.UpdatedAt = r.s.now()
		st.products[productID] = p
		ok = true
	})
	return ok, nil
}

func sortProducts(ps []domain.Product) {
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.After(ps[j].CreatedAt)
		}
		return ps[i].ID > ps[j].ID
	})
}
