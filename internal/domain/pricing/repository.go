package pricing

import (
	"context"

	"github.com/erp/proposals/internal/domain/shared"
	"github.com/google/uuid"
)

// RuleFilter narrows a rule listing
type RuleFilter struct {
	Scope      *RuleScope
	ActiveOnly bool
}

// MarkupRuleRepository persists markup rules
type MarkupRuleRepository interface {
	// FindByID returns shared.ErrNotFound when the rule does not exist
	FindByID(ctx context.Context, id uuid.UUID) (*MarkupRule, error)
	// FindAll lists rules ordered by priority descending
	FindAll(ctx context.Context, filter RuleFilter) ([]MarkupRule, error)
	// FindApplicable returns active rules that may match the product:
	// global rules plus rules targeting its brand, manufacturer or category
	FindApplicable(ctx context.Context, p Product) ([]MarkupRule, error)
	Save(ctx context.Context, rule *MarkupRule) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TargetResolver checks that a non-global rule points at an existing entity
type TargetResolver interface {
	TargetExists(ctx context.Context, scope RuleScope, id uuid.UUID) (bool, error)
}

// ProductRepository reads and updates the pricing slice of products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	SavePricing(ctx context.Context, p *Product) error
}

// PricingHistoryRepository is append-only: there is no update or delete
type PricingHistoryRepository interface {
	Append(ctx context.Context, entry *ProductPricingHistory) error
	// ListByProduct returns entries newest first
	ListByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]ProductPricingHistory, int64, error)
}
