package pricing

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places resolved prices are rounded to
const PriceScale = 2

var hundred = decimal.NewFromInt(100)

// ScopePrecedence is the tie-break policy for rules with equal priority:
// a rule whose scope appears earlier wins. Within one scope and priority the
// earlier created rule wins, then the lower identifier.
var ScopePrecedence = []RuleScope{ScopeBrand, ScopeManufacturer, ScopeCategory, ScopeGlobal}

// ResolvedPrice is the outcome of price resolution for one product
type ResolvedPrice struct {
	B2BPrice         decimal.Decimal `json:"b2b_price"`
	RetailPrice      decimal.Decimal `json:"retail_price"`
	ComputedB2B      decimal.Decimal `json:"computed_b2b_price"`
	ComputedRetail   decimal.Decimal `json:"computed_retail_price"`
	RuleID           *uuid.UUID      `json:"rule_id,omitempty"`
	RuleScope        RuleScope       `json:"rule_scope,omitempty"`
	B2BOverridden    bool            `json:"b2b_overridden"`
	RetailOverridden bool            `json:"retail_overridden"`
}

// SelectRule picks the single applicable rule for a product, or nil.
// Only active rules matching the product are considered.
func SelectRule(p Product, rules []MarkupRule) *MarkupRule {
	buckets := make(map[RuleScope][]*MarkupRule, len(ScopePrecedence))
	for i := range rules {
		r := &rules[i]
		if r.Matches(p) {
			buckets[r.Scope] = append(buckets[r.Scope], r)
		}
	}

	candidates := make([]*MarkupRule, 0, len(rules))
	for _, scope := range ScopePrecedence {
		bucket := buckets[scope]
		sort.SliceStable(bucket, func(i, j int) bool {
			return createdBefore(bucket[i], bucket[j])
		})
		candidates = append(candidates, bucket...)
	}

	// First maximum wins, so the concatenation order above is the tie-break.
	var best *MarkupRule
	for _, r := range candidates {
		if best == nil || r.Priority > best.Priority {
			best = r
		}
	}
	return best
}

func createdBefore(a, b *MarkupRule) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

// ResolvePrice computes B2B and retail prices for a product from a rule set.
// It is a pure function: absent data degrades to zero and it never fails.
func ResolvePrice(p Product, rules []MarkupRule) ResolvedPrice {
	rule := SelectRule(p, rules)

	var result ResolvedPrice
	if rule == nil && p.Cost == nil {
		result.ComputedB2B = decimal.Zero
		result.ComputedRetail = decimal.Zero
	} else {
		cost := decimal.Zero
		if p.Cost != nil {
			cost = *p.Cost
		}
		b2bPct, retailPct := decimal.Zero, decimal.Zero
		var b2bBounds, retailBounds PriceBounds
		if rule != nil {
			b2bPct, retailPct = rule.B2BMarkupPercent, rule.RetailMarkupPercent
			b2bBounds, retailBounds = rule.B2BBounds, rule.RetailBounds
			id := rule.ID
			result.RuleID = &id
			result.RuleScope = rule.Scope
		}
		result.ComputedB2B = b2bBounds.Clamp(ApplyMarkup(cost, b2bPct))
		result.ComputedRetail = retailBounds.Clamp(ApplyMarkup(cost, retailPct))
	}

	result.B2BPrice = result.ComputedB2B
	if p.ManualB2BPrice != nil {
		result.B2BPrice = *p.ManualB2BPrice
		result.B2BOverridden = true
	}
	result.RetailPrice = result.ComputedRetail
	if p.ManualRetailPrice != nil {
		result.RetailPrice = *p.ManualRetailPrice
		result.RetailOverridden = true
	}
	return result
}

// ApplyMarkup returns cost * (1 + percent/100) rounded to PriceScale
func ApplyMarkup(cost, percent decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(percent.Div(hundred))
	return cost.Mul(factor).Round(PriceScale)
}
