package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRateLimitRepository struct {
	mock.Mock
}

func NewMockRateLimitRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRateLimitRepository {
	m := &MockRateLimitRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRateLimitRepository) CheckRateLimit(ctx context.Context, scope, subject string) (bool, int, int, error) {
	args := m.Called(ctx, scope, subject)

	return args.Bool(0), args.Int(1), args.Int(2), args.Error(3)
}
