package mocks

import (
	"context"

	"farmconnect/internal/domain"
	"farmconnect/internal/ratelimit"

	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, eventType, key string, data any) error {
	args := m.Called(ctx, eventType, key, data)
	return args.Error(0)
}

type MockOrderCache struct {
	mock.Mock
}

func (m *MockOrderCache) Get(ctx context.Context, key string) ([]domain.Order, bool) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]domain.Order), args.Bool(1)
}

func (m *MockOrderCache) Set(ctx context.Context, key string, orders []domain.Order) {
	m.Called(ctx, key, orders)
}

func (m *MockOrderCache) Invalidate(ctx context.Context, keys ...string) {
	m.Called(ctx, keys)
}

type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) Verify(ctx context.Context, token string) (domain.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Identity), args.Error(1)
}

type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(ctx context.Context, key string) (ratelimit.Decision, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(ratelimit.Decision), args.Error(1)
}
