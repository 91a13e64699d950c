package memory

import (
	"context"

	"farmconnect/internal/domain"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) FindByID(_ context.Context, id uint64) (*domain.User, error) {
	var out *domain.User
	r.s.with(func(st *state) {
		if u, ok := st.users[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *userRepo) FindByFirebaseUID(_ context.Context, uid string) (*domain.User, error) {
	var out *domain.User
	r.s.with(func(st *state) {
		for _, u := range st.users {
			if u.FirebaseUID == uid {
				out = &u
				return
			}
		}
	})
	return out, nil
}

func (r *userRepo) FindByIDs(_ context.Context, ids []uint64) (map[uint64]domain.User, error) {
	out := make(map[uint64]domain.User, len(ids))
	r.s.with(func(st *state) {
		for _, id := range ids {
			if u, ok := st.users[id]; ok {
				out[id] = u
			}
		}
	})
	return out, nil
}

func (r *userRepo) Create(_ context.Context, u *domain.User) error {
	var err error
	r.s.with(func(st *state) {
		for _, existing := range st.users {
			if existing.FirebaseUID == u.FirebaseUID {
				err = domain.ErrConflict
				return
			}
		}
		u.ID = st.nextUserID
		st.nextUserID++
		u.CreatedAt = r.s.now()
		st.users[u.ID] = *u
	})
	return err
}
