package pricing

import (
	"strings"
	"time"

	"github.com/erp/proposals/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the pricing-relevant slice of a catalog product
type Product struct {
	shared.BaseEntity
	Name              string
	ERPCode           string
	IsService         bool
	Cost              *decimal.Decimal
	ManualB2BPrice    *decimal.Decimal
	ManualRetailPrice *decimal.Decimal
	BrandID           *uuid.UUID
	ManufacturerID    *uuid.UUID
	CategoryID        *uuid.UUID
}

// TargetFor returns the identifier a rule of the given scope is matched against
func (p Product) TargetFor(scope RuleScope) *uuid.UUID {
	switch scope {
	case ScopeBrand:
		return p.BrandID
	case ScopeManufacturer:
		return p.ManufacturerID
	case ScopeCategory:
		return p.CategoryID
	}
	return nil
}

// PricingChange describes an edit to a product's cost or manual prices.
// Nil fields are cleared, so callers pass the full desired state.
type PricingChange struct {
	Cost              *decimal.Decimal
	ManualB2BPrice    *decimal.Decimal
	ManualRetailPrice *decimal.Decimal
	Reason            string
	Actor             *uuid.UUID
}

// ChangePricing applies a pricing change and reports whether anything changed.
// The caller records a history row for every applied change.
func (p *Product) ChangePricing(change PricingChange, now time.Time) (bool, error) {
	if strings.TrimSpace(change.Reason) == "" {
		return false, shared.NewValidationError("a reason is required when changing product pricing")
	}
	for name, v := range map[string]*decimal.Decimal{
		"cost":                change.Cost,
		"manual B2B price":    change.ManualB2BPrice,
		"manual retail price": change.ManualRetailPrice,
	} {
		if v != nil && v.IsNegative() {
			return false, shared.NewValidationError("%s cannot be negative", name)
		}
	}

	if equalNullable(p.Cost, change.Cost) &&
		equalNullable(p.ManualB2BPrice, change.ManualB2BPrice) &&
		equalNullable(p.ManualRetailPrice, change.ManualRetailPrice) {
		return false, nil
	}

	p.Cost = change.Cost
	p.ManualB2BPrice = change.ManualB2BPrice
	p.ManualRetailPrice = change.ManualRetailPrice
	p.Touch(now)
	return true, nil
}

func equalNullable(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
