package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductPricingHistory is an append-only audit row of a product's pricing.
// Rows are never updated or deleted.
type ProductPricingHistory struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	Cost        decimal.Decimal
	B2BPrice    decimal.Decimal
	RetailPrice decimal.Decimal
	Reason      string
	Actor       *uuid.UUID
	RecordedAt  time.Time
}

// NewPricingHistory snapshots the product's cost and effective prices
func NewPricingHistory(p Product, resolved ResolvedPrice, reason string, actor *uuid.UUID, now time.Time) ProductPricingHistory {
	cost := decimal.Zero
	if p.Cost != nil {
		cost = *p.Cost
	}
	return ProductPricingHistory{
		ID:          uuid.New(),
		ProductID:   p.ID,
		Cost:        cost,
		B2BPrice:    resolved.B2BPrice,
		RetailPrice: resolved.RetailPrice,
		Reason:      reason,
		Actor:       actor,
		RecordedAt:  now,
	}
}
