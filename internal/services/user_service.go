package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"farmconnect/internal/domain"
	"farmconnect/internal/repository"
)

var ErrUserNotRegistered = fmt.Errorf("%w: user not registered", domain.ErrUnauthenticated)

type UserService struct {
	store repository.Store
}

func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store}
}

type RegisterInput struct {
	Name  string
	Phone string
	Role  string
}

// Register creates the local account for a verified identity. Only buyer
// and farmer accounts can be self-registered.
func (s *UserService) Register(ctx context.Context, id domain.Identity, in RegisterInput) (*domain.User, error) {
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	if !role.SelfRegistrable() {
		return nil, fmt.Errorf("%w: cannot register as %s", domain.ErrForbidden, role)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = strings.TrimSpace(id.Name)
	}
	if name == "" {
		return nil, domain.Validationf("name is required")
	}

	u := &domain.User{
		FirebaseUID: id.UID,
		Name:        name,
		Email:       id.Email,
		Phone:       strings.TrimSpace(in.Phone),
		Role:        role,
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("user %w", domain.ErrConflict)
		}
		return nil, err
	}
	return u, nil
}

// Resolve maps a verified identity to its local user.
func (s *UserService) Resolve(ctx context.Context, id domain.Identity) (*domain.User, error) {
	u, err := s.store.Users().FindByFirebaseUID(ctx, id.UID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotRegistered
	}
	return u, nil
}
