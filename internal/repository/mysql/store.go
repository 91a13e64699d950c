package mysql

import (
	"context"

	"farmconnect/internal/repository"

	"gorm.io/gorm"
)

type store struct {
	db   *gorm.DB
	inTx bool
}

func NewStore(db *gorm.DB) repository.Store {
	return &store{db: db}
}

func (s *store) Orders() repository.OrderRepository {
	return &orderRepo{db: s.db, users: &userRepo{db: s.db}}
}

func (s *store) Products() repository.ProductRepository {
	return &productRepo{db: s.db, lock: s.inTx}
}

func (s *store) Carts() repository.CartRepository {
	return &cartRepo{db: s.db, lock: s.inTx}
}

func (s *store) Users() repository.UserRepository {
	return &userRepo{db: s.db}
}

func (s *store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx, inTx: true})
	})
}

func (s *store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
