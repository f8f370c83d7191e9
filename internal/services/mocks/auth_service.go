package mocks

import (
	"context"

	"github.com/malaura/storefront/pkg/gotrue"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func NewMockAuthService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAuthService {
	m := &MockAuthService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAuthService) ExchangeCode(ctx context.Context, code, codeVerifier string) (*gotrue.Session, error) {
	args := m.Called(ctx, code, codeVerifier)

	session, _ := args.Get(0).(*gotrue.Session)

	return session, args.Error(1)
}
