package pricing

import (
	"context"

	"github.com/erp/proposals/internal/domain/pricing"
)

// TransactionScope runs a product pricing change and its history row in one
// transaction.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories bound to one transaction.
type TransactionalRepositories interface {
	ProductRepo() pricing.ProductRepository
	HistoryRepo() pricing.PricingHistoryRepository
}

// NoOpTransactionScope runs functions without a real transaction.
type NoOpTransactionScope struct {
	productRepo pricing.ProductRepository
	historyRepo pricing.PricingHistoryRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(productRepo pricing.ProductRepository, historyRepo pricing.PricingHistoryRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{productRepo: productRepo, historyRepo: historyRepo}
}

// Execute runs fn directly.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() pricing.ProductRepository {
	return s.productRepo
}

// HistoryRepo returns the pricing history repository.
func (s *NoOpTransactionScope) HistoryRepo() pricing.PricingHistoryRepository {
	return s.historyRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
