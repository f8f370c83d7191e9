package mocks

import (
	"context"

	"github.com/malaura/storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
}

func NewMockCatalogService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCatalogService {
	m := &MockCatalogService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCatalogService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	args := m.Called(ctx, filter)

	products, _ := args.Get(0).([]*models.Product)

	return products, args.Error(1)
}

func (m *MockCatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)

	product, _ := args.Get(0).(*models.Product)

	return product, args.Error(1)
}

func (m *MockCatalogService) ResolveProducts(ctx context.Context, ids []int64) (map[int64]*models.Product, error) {
	args := m.Called(ctx, ids)

	products, _ := args.Get(0).(map[int64]*models.Product)

	return products, args.Error(1)
}
