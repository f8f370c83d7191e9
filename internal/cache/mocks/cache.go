package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockCache struct {
	mock.Mock
}

func NewMockCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCache {
	m := &MockCache{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Get fills value through the optional Run hook of the expectation.
func (m *MockCache) Get(ctx context.Context, key string, value any) (bool, error) {
	args := m.Called(ctx, key, value)

	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)

	return args.Error(0)
}

func (m *MockCache) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)

	return args.Bool(0), args.Error(1)
}

// Update replays the read-modify-write through the Get and Set expectations.
func (m *MockCache) Update(ctx context.Context, key string, value any, ttl time.Duration, fn func(found bool) (any, error)) error {
	found, err := m.Get(ctx, key, value)
	if err != nil {
		return err
	}

	next, err := fn(found)
	if err != nil {
		return err
	}

	return m.Set(ctx, key, next, ttl)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)

	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()

	return args.Error(0)
}
