package mocks

import (
	"context"

	"github.com/malaura/storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

func NewMockProductRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProductRepository {
	m := &MockProductRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockProductRepository) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	args := m.Called(ctx, filter)

	products, _ := args.Get(0).([]*models.Product)

	return products, args.Error(1)
}

func (m *MockProductRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)

	product, _ := args.Get(0).(*models.Product)

	return product, args.Error(1)
}

func (m *MockProductRepository) GetProductsByIDs(ctx context.Context, ids []int64) ([]*models.Product, error) {
	args := m.Called(ctx, ids)

	products, _ := args.Get(0).([]*models.Product)

	return products, args.Error(1)
}
