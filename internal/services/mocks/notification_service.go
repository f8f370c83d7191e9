package mocks

import (
	"context"

	"github.com/malaura/storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockNotificationService struct {
	mock.Mock
}

func NewMockNotificationService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockNotificationService {
	m := &MockNotificationService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockNotificationService) SendOrderNotifications(ctx context.Context, n *models.OrderNotification) error {
	args := m.Called(ctx, n)

	return args.Error(0)
}
