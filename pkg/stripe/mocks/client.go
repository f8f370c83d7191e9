package mocks

import (
	"context"

	stripeClient "github.com/malaura/storefront/pkg/stripe"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v81"
)

type MockClient struct {
	mock.Mock
}

func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockClient) CreatePaymentIntent(ctx context.Context, input *stripeClient.PaymentIntentInput) (*stripe.PaymentIntent, error) {
	args := m.Called(ctx, input)

	pi, _ := args.Get(0).(*stripe.PaymentIntent)

	return pi, args.Error(1)
}

func (m *MockClient) UpdatePaymentIntent(ctx context.Context, id string, input *stripeClient.PaymentIntentInput) (*stripe.PaymentIntent, error) {
	args := m.Called(ctx, id, input)

	pi, _ := args.Get(0).(*stripe.PaymentIntent)

	return pi, args.Error(1)
}

func (m *MockClient) GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	args := m.Called(ctx, id)

	pi, _ := args.Get(0).(*stripe.PaymentIntent)

	return pi, args.Error(1)
}

func (m *MockClient) VerifyWebhookSignature(payload []byte, signature string) (stripeClient.Event, error) {
	args := m.Called(payload, signature)

	event, _ := args.Get(0).(stripeClient.Event)

	return event, args.Error(1)
}

func (m *MockClient) CheckBalance(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
