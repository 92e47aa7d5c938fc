package proposal

import (
	"context"

	"github.com/erp/proposals/internal/domain/crm"
	"github.com/erp/proposals/internal/domain/proposal"
)

// TransactionScope provides transactional access to the proposal, lead and
// project repositories. Everything done through the repositories handed to fn
// commits or rolls back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
	// ExecuteForSource is Execute plus a database-level lock on lockKey held
	// until the transaction ends. Stores without such locks ignore the key.
	ExecuteForSource(ctx context.Context, lockKey string, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories bound to one transaction.
//
// A status change that wins the deal touches three aggregates: the proposal,
// the originating lead and the new project. They are persisted through these
// repositories so that conversion is all-or-nothing.
type TransactionalRepositories interface {
	ProposalRepo() proposal.Repository
	LeadRepo() crm.LeadRepository
	ProjectRepo() crm.ProjectRepository
}

// NoOpTransactionScope runs functions without a real transaction.
// It is meant for tests with in-memory or mocked repositories.
type NoOpTransactionScope struct {
	proposalRepo proposal.Repository
	leadRepo     crm.LeadRepository
	projectRepo  crm.ProjectRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	proposalRepo proposal.Repository,
	leadRepo crm.LeadRepository,
	projectRepo crm.ProjectRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		proposalRepo: proposalRepo,
		leadRepo:     leadRepo,
		projectRepo:  projectRepo,
	}
}

// Execute runs fn directly.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ExecuteForSource runs fn directly.
func (s *NoOpTransactionScope) ExecuteForSource(_ context.Context, _ string, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProposalRepo returns the proposal repository.
func (s *NoOpTransactionScope) ProposalRepo() proposal.Repository {
	return s.proposalRepo
}

// LeadRepo returns the lead repository.
func (s *NoOpTransactionScope) LeadRepo() crm.LeadRepository {
	return s.leadRepo
}

// ProjectRepo returns the project repository.
func (s *NoOpTransactionScope) ProjectRepo() crm.ProjectRepository {
	return s.projectRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
