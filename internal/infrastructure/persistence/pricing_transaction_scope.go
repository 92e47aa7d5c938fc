package persistence

import (
	"context"

	apppricing "github.com/erp/proposals/internal/application/pricing"
	"github.com/erp/proposals/internal/domain/pricing"
	"gorm.io/gorm"
)

// GormPricingTransactionScope implements the pricing TransactionScope using GORM transactions.
type GormPricingTransactionScope struct {
	db *gorm.DB
}

// NewGormPricingTransactionScope creates a new GormPricingTransactionScope.
func NewGormPricingTransactionScope(db *gorm.DB) *GormPricingTransactionScope {
	return &GormPricingTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
func (s *GormPricingTransactionScope) Execute(ctx context.Context, fn func(repos apppricing.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormPricingRepositories{tx: tx})
	})
}

type gormPricingRepositories struct {
	tx *gorm.DB
}

// ProductRepo returns the product repository scoped to the current transaction.
func (r *gormPricingRepositories) ProductRepo() pricing.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// HistoryRepo returns the pricing history repository scoped to the current transaction.
func (r *gormPricingRepositories) HistoryRepo() pricing.PricingHistoryRepository {
	return NewGormPricingHistoryRepository(r.tx)
}

var _ apppricing.TransactionScope = (*GormPricingTransactionScope)(nil)
var _ apppricing.TransactionalRepositories = (*gormPricingRepositories)(nil)
