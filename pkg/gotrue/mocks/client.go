package mocks

import (
	"context"

	"github.com/malaura/storefront/pkg/gotrue"
	"github.com/stretchr/testify/mock"
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

func (m *MockClient) ExchangeCode(ctx context.Context, code, codeVerifier string) (*gotrue.Session, error) {
	args := m.Called(ctx, code, codeVerifier)

	session, _ := args.Get(0).(*gotrue.Session)

	return session, args.Error(1)
}
