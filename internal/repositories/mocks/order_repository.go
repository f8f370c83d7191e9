package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/malaura/storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func NewMockOrderRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOrderRepository {
	m := &MockOrderRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *models.Order) (bool, error) {
	args := m.Called(ctx, order)

	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	args := m.Called(ctx, id)

	order, _ := args.Get(0).(*models.Order)

	return order, args.Error(1)
}

func (m *MockOrderRepository) GetOrderByPaymentIntent(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	args := m.Called(ctx, paymentIntentID)

	order, _ := args.Get(0).(*models.Order)

	return order, args.Error(1)
}

func (m *MockOrderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]models.Order, int, error) {
	args := m.Called(ctx, userID, page, size)

	orders, _ := args.Get(0).([]models.Order)

	return orders, args.Int(1), args.Error(2)
}

func (m *MockOrderRepository) MarkOrderPaid(ctx context.Context, paymentIntentID string) (bool, error) {
	args := m.Called(ctx, paymentIntentID)

	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) CountPaidOrdersByEmail(ctx context.Context, email string) (int, error) {
	args := m.Called(ctx, email)

	return args.Int(0), args.Error(1)
}

func (m *MockOrderRepository) CountPaidOrdersByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)

	return args.Int(0), args.Error(1)
}
