package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/malaura/storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func NewMockOrderService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOrderService {
	m := &MockOrderService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockOrderService) ListOrders(ctx context.Context, userID uuid.UUID, page, size int) (*models.OrderHistory, error) {
	args := m.Called(ctx, userID, page, size)

	history, _ := args.Get(0).(*models.OrderHistory)

	return history, args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, userID uuid.UUID, id int64) (*models.Order, error) {
	args := m.Called(ctx, userID, id)

	order, _ := args.Get(0).(*models.Order)

	return order, args.Error(1)
}
