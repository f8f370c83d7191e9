package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/malaura/storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockProfileService struct {
	mock.Mock
}

func NewMockProfileService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProfileService {
	m := &MockProfileService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockProfileService) GetProfile(ctx context.Context, userID uuid.UUID, email string) (*models.ProfileResponse, error) {
	args := m.Called(ctx, userID, email)

	resp, _ := args.Get(0).(*models.ProfileResponse)

	return resp, args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, email string, req *models.UpdateProfileRequest) (*models.ProfileResponse, error) {
	args := m.Called(ctx, userID, email, req)

	resp, _ := args.Get(0).(*models.ProfileResponse)

	return resp, args.Error(1)
}
