package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockWebhookService struct {
	mock.Mock
}

func NewMockWebhookService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWebhookService {
	m := &MockWebhookService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockWebhookService) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	args := m.Called(ctx, payload, signature)

	return args.Error(0)
}
