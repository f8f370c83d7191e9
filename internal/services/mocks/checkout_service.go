package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/malaura/storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockCheckoutService struct {
	mock.Mock
}

func NewMockCheckoutService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCheckoutService {
	m := &MockCheckoutService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCheckoutService) CreatePaymentIntent(ctx context.Context, userID uuid.UUID, email string, req *models.CreatePaymentIntentRequest) (*models.PaymentIntentResponse, error) {
	args := m.Called(ctx, userID, email, req)

	resp, _ := args.Get(0).(*models.PaymentIntentResponse)

	return resp, args.Error(1)
}

func (m *MockCheckoutService) ConfirmOrder(ctx context.Context, userID uuid.UUID, req *models.ConfirmOrderRequest) (*models.ConfirmOrderResponse, error) {
	args := m.Called(ctx, userID, req)

	resp, _ := args.Get(0).(*models.ConfirmOrderResponse)

	return resp, args.Error(1)
}

func (m *MockCheckoutService) Confirmation(ctx context.Context, userID uuid.UUID, paymentIntentID string) (*models.Order, error) {
	args := m.Called(ctx, userID, paymentIntentID)

	order, _ := args.Get(0).(*models.Order)

	return order, args.Error(1)
}
