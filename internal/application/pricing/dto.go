package pricing

import (
	"time"

	"github.com/erp/proposals/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MarkupRuleRequest creates or replaces a markup rule
type MarkupRuleRequest struct {
	Name                string           `json:"name" binding:"required,min=1,max=200"`
	Scope               string           `json:"scope" binding:"required,oneof=brand manufacturer category global"`
	TargetID            *uuid.UUID       `json:"target_id"`
	Priority            int              `json:"priority" binding:"gte=0,lte=10000"`
	B2BMarkupPercent    decimal.Decimal  `json:"b2b_markup_percent"`
	RetailMarkupPercent decimal.Decimal  `json:"retail_markup_percent"`
	MinB2BPrice         *decimal.Decimal `json:"min_b2b_price"`
	MaxB2BPrice         *decimal.Decimal `json:"max_b2b_price"`
	MinRetailPrice      *decimal.Decimal `json:"min_retail_price"`
	MaxRetailPrice      *decimal.Decimal `json:"max_retail_price"`
	Active              *bool            `json:"active"`
}

// toInput converts the request to domain input; Active defaults to true
func (r MarkupRuleRequest) toInput() (pricing.MarkupRuleInput, error) {
	scope, err := pricing.ParseRuleScope(r.Scope)
	if err != nil {
		return pricing.MarkupRuleInput{}, err
	}
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return pricing.MarkupRuleInput{
		Name:                r.Name,
		Scope:               scope,
		TargetID:            r.TargetID,
		Priority:            r.Priority,
		B2BMarkupPercent:    r.B2BMarkupPercent,
		RetailMarkupPercent: r.RetailMarkupPercent,
		B2BBounds:           pricing.PriceBounds{Min: r.MinB2BPrice, Max: r.MaxB2BPrice},
		RetailBounds:        pricing.PriceBounds{Min: r.MinRetailPrice, Max: r.MaxRetailPrice},
		Active:              active,
	}, nil
}

// RuleListFilter narrows ListRules
type RuleListFilter struct {
	Scope      string `form:"scope" binding:"omitempty,oneof=brand manufacturer category global"`
	ActiveOnly bool   `form:"active"`
}

// MarkupRuleResponse represents a markup rule in API responses
type MarkupRuleResponse struct {
	ID                  uuid.UUID        `json:"id"`
	Name                string           `json:"name"`
	Scope               string           `json:"scope"`
	TargetID            *uuid.UUID       `json:"target_id,omitempty"`
	Priority            int              `json:"priority"`
	B2BMarkupPercent    decimal.Decimal  `json:"b2b_markup_percent"`
	RetailMarkupPercent decimal.Decimal  `json:"retail_markup_percent"`
	MinB2BPrice         *decimal.Decimal `json:"min_b2b_price,omitempty"`
	MaxB2BPrice         *decimal.Decimal `json:"max_b2b_price,omitempty"`
	MinRetailPrice      *decimal.Decimal `json:"min_retail_price,omitempty"`
	MaxRetailPrice      *decimal.Decimal `json:"max_retail_price,omitempty"`
	Active              bool             `json:"active"`
	CreatedBy           *uuid.UUID       `json:"created_by,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	Version             int              `json:"version"`
}

// ToMarkupRuleResponse converts a domain rule to a response
func ToMarkupRuleResponse(r *pricing.MarkupRule) MarkupRuleResponse {
	return MarkupRuleResponse{
		ID:                  r.ID,
		Name:                r.Name,
		Scope:               r.Scope.String(),
		TargetID:            r.TargetID,
		Priority:            r.Priority,
		B2BMarkupPercent:    r.B2BMarkupPercent,
		RetailMarkupPercent: r.RetailMarkupPercent,
		MinB2BPrice:         r.B2BBounds.Min,
		MaxB2BPrice:         r.B2BBounds.Max,
		MinRetailPrice:      r.RetailBounds.Min,
		MaxRetailPrice:      r.RetailBounds.Max,
		Active:              r.Active,
		CreatedBy:           r.CreatedBy,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
		Version:             r.Version,
	}
}

// PriceResponse is the resolved price of a product
type PriceResponse struct {
	ProductID uuid.UUID        `json:"product_id"`
	Cost      *decimal.Decimal `json:"cost"`
	pricing.ResolvedPrice
}

// UpdateProductPricingRequest sets a product's cost and manual prices.
// Omitted prices are cleared.
type UpdateProductPricingRequest struct {
	Cost              *decimal.Decimal `json:"cost"`
	ManualB2BPrice    *decimal.Decimal `json:"manual_b2b_price"`
	ManualRetailPrice *decimal.Decimal `json:"manual_retail_price"`
	Reason            string           `json:"reason" binding:"required,min=1,max=500"`
}

// ProductPricingResponse is the product pricing state after an update
type ProductPricingResponse struct {
	ProductID         uuid.UUID             `json:"product_id"`
	Cost              *decimal.Decimal      `json:"cost"`
	ManualB2BPrice    *decimal.Decimal      `json:"manual_b2b_price"`
	ManualRetailPrice *decimal.Decimal      `json:"manual_retail_price"`
	Changed           bool                  `json:"changed"`
	Resolved          pricing.ResolvedPrice `json:"resolved"`
}

// PricingHistoryResponse is one pricing audit row
type PricingHistoryResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Cost        decimal.Decimal `json:"cost"`
	B2BPrice    decimal.Decimal `json:"b2b_price"`
	RetailPrice decimal.Decimal `json:"retail_price"`
	Reason      string          `json:"reason"`
	Actor       *uuid.UUID      `json:"actor,omitempty"`
	RecordedAt  time.Time       `json:"recorded_at"`
}

func toHistoryResponses(entries []pricing.ProductPricingHistory) []PricingHistoryResponse {
	out := make([]PricingHistoryResponse, len(entries))
	for i, e := range entries {
		out[i] = PricingHistoryResponse{
			ID:          e.ID,
			ProductID:   e.ProductID,
			Cost:        e.Cost,
			B2BPrice:    e.B2BPrice,
			RetailPrice: e.RetailPrice,
			Reason:      e.Reason,
			Actor:       e.Actor,
			RecordedAt:  e.RecordedAt,
		}
	}
	return out
}
