package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/malaura/storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockProfileRepository struct {
	mock.Mock
}

func NewMockProfileRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProfileRepository {
	m := &MockProfileRepository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockProfileRepository) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)

	profile, _ := args.Get(0).(*models.Profile)

	return profile, args.Error(1)
}

func (m *MockProfileRepository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	return m.Called(ctx, profile).Error(0)
}
