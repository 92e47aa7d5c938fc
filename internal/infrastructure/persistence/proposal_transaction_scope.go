package persistence

import (
	"context"

	appproposal "github.com/erp/proposals/internal/application/proposal"
	"github.com/erp/proposals/internal/domain/crm"
	"github.com/erp/proposals/internal/domain/proposal"
	"gorm.io/gorm"
)

// GormProposalTransactionScope implements TransactionScope using GORM transactions.
type GormProposalTransactionScope struct {
	db *gorm.DB
}

// NewGormProposalTransactionScope creates a new GormProposalTransactionScope.
func NewGormProposalTransactionScope(db *gorm.DB) *GormProposalTransactionScope {
	return &GormProposalTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
func (s *GormProposalTransactionScope) Execute(ctx context.Context, fn func(repos appproposal.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormProposalRepositories{tx: tx})
	})
}

// ExecuteForSource runs fn within a transaction that first takes a
// transaction-scoped advisory lock on lockKey (PostgreSQL only).
func (s *GormProposalTransactionScope) ExecuteForSource(ctx context.Context, lockKey string, fn func(repos appproposal.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := advisoryXactLock(tx, lockKey); err != nil {
			return err
		}
		return fn(&gormProposalRepositories{tx: tx})
	})
}

// advisoryXactLock blocks until the key's advisory lock is held; PostgreSQL
// releases it at commit or rollback. Other dialects have no equivalent and
// rely on the application-level source lock.
func advisoryXactLock(tx *gorm.DB, key string) error {
	if key == "" || tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", key).Error
}

// gormProposalRepositories provides repositories scoped to the current transaction.
type gormProposalRepositories struct {
	tx *gorm.DB
}

// ProposalRepo returns the proposal repository scoped to the current transaction.
func (r *gormProposalRepositories) ProposalRepo() proposal.Repository {
	return NewGormProposalRepository(r.tx)
}

// LeadRepo returns the lead repository scoped to the current transaction.
func (r *gormProposalRepositories) LeadRepo() crm.LeadRepository {
	return NewGormLeadRepository(r.tx)
}

// ProjectRepo returns the project repository scoped to the current transaction.
func (r *gormProposalRepositories) ProjectRepo() crm.ProjectRepository {
	return NewGormProjectRepository(r.tx)
}

// Ensure GormProposalTransactionScope implements TransactionScope
var _ appproposal.TransactionScope = (*GormProposalTransactionScope)(nil)

// Ensure gormProposalRepositories implements TransactionalRepositories
var _ appproposal.TransactionalRepositories = (*gormProposalRepositories)(nil)
