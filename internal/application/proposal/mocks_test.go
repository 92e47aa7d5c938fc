package proposal

import (
	"context"
	"sync"

	"github.com/erp/proposals/internal/domain/crm"
	"github.com/erp/proposals/internal/domain/integration"
	"github.com/erp/proposals/internal/domain/pricing"
	"github.com/erp/proposals/internal/domain/proposal"
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProposalRepository is a mock implementation of proposal.Repository
type MockProposalRepository struct {
	mock.Mock
}

func (m *MockProposalRepository) FindByID(ctx context.Context, id uuid.UUID) (*proposal.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*proposal.Proposal), args.Error(1)
}

func (m *MockProposalRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*proposal.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*proposal.Proposal), args.Error(1)
}

func (m *MockProposalRepository) FindBySiteSurvey(ctx context.Context, siteSurveyID uuid.UUID) (*proposal.Proposal, error) {
	args := m.Called(ctx, siteSurveyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*proposal.Proposal), args.Error(1)
}

func (m *MockProposalRepository) FindByRFP(ctx context.Context, rfpID uuid.UUID) (*proposal.Proposal, error) {
	args := m.Called(ctx, rfpID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*proposal.Proposal), args.Error(1)
}

func (m *MockProposalRepository) Save(ctx context.Context, p *proposal.Proposal) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockLeadRepository is a mock implementation of crm.LeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Lead), args.Error(1)
}

func (m *MockLeadRepository) Save(ctx context.Context, lead *crm.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) AppendStatusChange(ctx context.Context, change *crm.LeadStatusChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

func (m *MockLeadRepository) ListStatusChanges(ctx context.Context, leadID uuid.UUID) ([]crm.LeadStatusChange, error) {
	args := m.Called(ctx, leadID)
	return args.Get(0).([]crm.LeadStatusChange), args.Error(1)
}

// MockProjectRepository is a mock implementation of crm.ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Project), args.Error(1)
}

func (m *MockProjectRepository) Create(ctx context.Context, project *crm.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of crm.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindContactByID(ctx context.Context, id uuid.UUID) (*crm.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Contact), args.Error(1)
}

// MockSourceDocumentRepository is a mock implementation of crm.SourceDocumentRepository
type MockSourceDocumentRepository struct {
	mock.Mock
}

func (m *MockSourceDocumentRepository) FindRFP(ctx context.Context, id uuid.UUID) (*crm.RFP, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.RFP), args.Error(1)
}

func (m *MockSourceDocumentRepository) FindSiteSurvey(ctx context.Context, id uuid.UUID) (*crm.SiteSurvey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.SiteSurvey), args.Error(1)
}

// MockProductRepository is a mock implementation of pricing.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]pricing.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]pricing.Product), args.Error(1)
}

func (m *MockProductRepository) SavePricing(ctx context.Context, p *pricing.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockMarkupRuleRepository is a mock implementation of pricing.MarkupRuleRepository
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

// MockERPClient is a mock implementation of integration.ERPClient
type MockERPClient struct {
	mock.Mock
}

func (m *MockERPClient) CreateSalesDocument(ctx context.Context, req integration.DocumentRequest) (*integration.DocumentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.DocumentResult), args.Error(1)
}

// MockLocker is a mock implementation of shared.Locker that counts releases
type MockLocker struct {
	mock.Mock
	mu       sync.Mutex
	released int
}

func (m *MockLocker) Lock(ctx context.Context, key string) (func(), error) {
	args := m.Called(ctx, key)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.released++
	}, nil
}

func (m *MockLocker) Released() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

// recordingMetrics captures metric calls
type recordingMetrics struct {
	mu          sync.Mutex
	transitions []string
	conversions int
	erpOutcomes []string
	generations []bool
}

func (r *recordingMetrics) RecordStatusTransition(_ context.Context, from, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, from+"->"+to)
}

func (r *recordingMetrics) RecordLeadConversion(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversions++
}

func (r *recordingMetrics) RecordERPSync(_ context.Context, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.erpOutcomes = append(r.erpOutcomes, outcome)
}

func (r *recordingMetrics) RecordGeneration(_ context.Context, regenerated bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generations = append(r.generations, regenerated)
}

// recordingPublisher captures published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (r *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}
