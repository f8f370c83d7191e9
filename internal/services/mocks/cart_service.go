package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/malaura/storefront/internal/cart"
	"github.com/malaura/storefront/internal/models"
	"github.com/malaura/storefront/internal/pricing"
	"github.com/stretchr/testify/mock"
)

type MockCartService struct {
	mock.Mock
}

func NewMockCartService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCartService {
	m := &MockCartService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCartService) GetCart(ctx context.Context, userID uuid.UUID, method pricing.DeliveryMethod) (*models.CartView, error) {
	args := m.Called(ctx, userID, method)

	view, _ := args.Get(0).(*models.CartView)

	return view, args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) (*models.CartView, error) {
	args := m.Called(ctx, userID, req)

	view, _ := args.Get(0).(*models.CartView)

	return view, args.Error(1)
}

func (m *MockCartService) UpdateItem(ctx context.Context, userID uuid.UUID, req *models.UpdateCartItemRequest) (*models.CartView, error) {
	args := m.Called(ctx, userID, req)

	view, _ := args.Get(0).(*models.CartView)

	return view, args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID uuid.UUID, key cart.Key) (*models.CartView, error) {
	args := m.Called(ctx, userID, key)

	view, _ := args.Get(0).(*models.CartView)

	return view, args.Error(1)
}

func (m *MockCartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

func (m *MockCartService) LoadCart(ctx context.Context, userID uuid.UUID) (cart.Cart, error) {
	args := m.Called(ctx, userID)

	c, _ := args.Get(0).(cart.Cart)

	return c, args.Error(1)
}
