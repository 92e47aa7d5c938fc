package pricing

import (
	"context"

	"github.com/erp/proposals/internal/domain/pricing"
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockMarkupRuleRepository is a mock implementation of MarkupRuleRepository
type MockMarkupRuleRepository struct {
	mock.Mock
}

func (m *MockMarkupRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.MarkupRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.MarkupRule), args.Error(1)
}

func (m *MockMarkupRuleRepository) FindAll(ctx context.Context, filter pricing.RuleFilter) ([]pricing.MarkupRule, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]pricing.MarkupRule), args.Error(1)
}

func (m *MockMarkupRuleRepository) FindApplicable(ctx context.Context, p pricing.Product) ([]pricing.MarkupRule, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]pricing.MarkupRule), args.Error(1)
}

func (m *MockMarkupRuleRepository) Save(ctx context.Context, rule *pricing.MarkupRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockMarkupRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Return a copy so that the service cannot mutate the fixture
	p := *args.Get(0).(*pricing.Product)
	return &p, args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]pricing.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]pricing.Product), args.Error(1)
}

func (m *MockProductRepository) SavePricing(ctx context.Context, p *pricing.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockPricingHistoryRepository is a mock implementation of PricingHistoryRepository
type MockPricingHistoryRepository struct {
	mock.Mock
}

func (m *MockPricingHistoryRepository) Append(ctx context.Context, entry *pricing.ProductPricingHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockPricingHistoryRepository) ListByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]pricing.ProductPricingHistory, int64, error) {
	args := m.Called(ctx, productID, filter)
	return args.Get(0).([]pricing.ProductPricingHistory), args.Get(1).(int64), args.Error(2)
}

// MockTargetResolver is a mock implementation of TargetResolver
type MockTargetResolver struct {
	mock.Mock
}

func (m *MockTargetResolver) TargetExists(ctx context.Context, scope pricing.RuleScope, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, scope, id)
	return args.Bool(0), args.Error(1)
}
