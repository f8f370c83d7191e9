package mocks

import (
	"context"

	"github.com/malaura/storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockEmailService struct {
	mock.Mock
}

func NewMockEmailService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEmailService {
	m := &MockEmailService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockEmailService) Send(ctx context.Context, req *models.EmailNotificationRequest) error {
	return m.Called(ctx, req).Error(0)
}
