package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/httpcontext-service/internal/domain"
	"github.com/jsamuelsen/httpcontext-service/internal/ports"
)

// mockHealthRegistry is a testify mock of ports.HealthRegistry.
type mockHealthRegistry struct {
	mock.Mock
}

func newMockHealthRegistry(t *testing.T) *mockHealthRegistry {
	m := &mockHealthRegistry{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockHealthRegistry) Register(checker ports.HealthChecker) error {
	args := m.Called(checker)
	return args.Error(0)
}

func (m *mockHealthRegistry) CheckAll(ctx context.Context) *ports.HealthResult {
	args := m.Called(ctx)

	result, _ := args.Get(0).(*ports.HealthResult)

	return result
}

// mockContextService is a testify mock of ports.RequestContextService.
type mockContextService struct {
	mock.Mock
}

func newMockContextService(t *testing.T) *mockContextService {
	m := &mockContextService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockContextService) Describe(ctx context.Context) (*domain.ExchangeSnapshot, error) {
	args := m.Called(ctx)

	snapshot, _ := args.Get(0).(*domain.ExchangeSnapshot)

	return snapshot, args.Error(1)
}

func (m *mockContextService) Property(ctx context.Context, key string) (any, error) {
	args := m.Called(ctx, key)
	return args.Get(0), args.Error(1)
}

func (m *mockContextService) SetProperty(ctx context.Context, key string, value any) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// mockSelfChecker is a testify mock of ports.SelfChecker.
type mockSelfChecker struct {
	mock.Mock
}

func newMockSelfChecker(t *testing.T) *mockSelfChecker {
	m := &mockSelfChecker{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockSelfChecker) SelfCheck(ctx context.Context, units, reads int) (*domain.SelfCheckReport, error) {
	args := m.Called(ctx, units, reads)

	report, _ := args.Get(0).(*domain.SelfCheckReport)

	return report, args.Error(1)
}

var (
	_ ports.HealthRegistry        = (*mockHealthRegistry)(nil)
	_ ports.RequestContextService = (*mockContextService)(nil)
	_ ports.SelfChecker           = (*mockSelfChecker)(nil)
)
