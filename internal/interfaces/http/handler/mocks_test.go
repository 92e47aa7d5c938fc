package handler

import (
	"context"

	pricingapp "github.com/erp/proposals/internal/application/pricing"
	proposalapp "github.com/erp/proposals/internal/application/proposal"
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) ListRules(ctx context.Context, filter pricingapp.RuleListFilter) ([]pricingapp.MarkupRuleResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricingapp.MarkupRuleResponse), args.Error(1)
}

func (m *MockPricingService) GetRule(ctx context.Context, id uuid.UUID) (*pricingapp.MarkupRuleResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.MarkupRuleResponse), args.Error(1)
}

func (m *MockPricingService) CreateRule(ctx context.Context, req pricingapp.MarkupRuleRequest, actor shared.Actor) (*pricingapp.MarkupRuleResponse, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.MarkupRuleResponse), args.Error(1)
}

func (m *MockPricingService) UpdateRule(ctx context.Context, id uuid.UUID, req pricingapp.MarkupRuleRequest, actor shared.Actor) (*pricingapp.MarkupRuleResponse, error) {
	args := m.Called(ctx, id, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.MarkupRuleResponse), args.Error(1)
}

func (m *MockPricingService) DeleteRule(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	return m.Called(ctx, id, actor).Error(0)
}

func (m *MockPricingService) ResolveProductPrice(ctx context.Context, productID uuid.UUID) (*pricingapp.PriceResponse, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.PriceResponse), args.Error(1)
}

func (m *MockPricingService) UpdateProductPricing(ctx context.Context, productID uuid.UUID, req pricingapp.UpdateProductPricingRequest, actor shared.Actor) (*pricingapp.ProductPricingResponse, error) {
	args := m.Called(ctx, productID, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.ProductPricingResponse), args.Error(1)
}

func (m *MockPricingService) ListPricingHistory(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[pricingapp.PricingHistoryResponse], error) {
	args := m.Called(ctx, productID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[pricingapp.PricingHistoryResponse]), args.Error(1)
}

type MockProposalService struct {
	mock.Mock
}

func (m *MockProposalService) Generate(ctx context.Context, req proposalapp.GenerateProposalRequest, actor shared.Actor) (*proposalapp.GenerateResult, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*proposalapp.GenerateResult), args.Error(1)
}

func (m *MockProposalService) GetProposal(ctx context.Context, id uuid.UUID) (*proposalapp.ProposalResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*proposalapp.ProposalResponse), args.Error(1)
}

func (m *MockProposalService) TransitionStatus(ctx context.Context, id uuid.UUID, req proposalapp.TransitionStatusRequest, actor shared.Actor) (*proposalapp.TransitionResult, error) {
	args := m.Called(ctx, id, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*proposalapp.TransitionResult), args.Error(1)
}

func (m *MockProposalService) RecordSend(ctx context.Context, id uuid.UUID, req proposalapp.RecordSendRequest, actor shared.Actor) (*proposalapp.ProposalResponse, error) {
	args := m.Called(ctx, id, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*proposalapp.ProposalResponse), args.Error(1)
}

func (m *MockProposalService) ValidateLines(ctx context.Context, id uuid.UUID) (*proposalapp.LineValidationResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*proposalapp.LineValidationResult), args.Error(1)
}

func (m *MockProposalService) SendToERP(ctx context.Context, id uuid.UUID, req proposalapp.SendToERPRequest, actor shared.Actor) (*proposalapp.ERPSyncResult, error) {
	args := m.Called(ctx, id, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*proposalapp.ERPSyncResult), args.Error(1)
}
