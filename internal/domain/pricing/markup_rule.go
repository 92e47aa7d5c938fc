package pricing

import (
	"strings"
	"time"

	"github.com/erp/proposals/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RuleScope identifies what a markup rule is attached to
type RuleScope string

const (
	ScopeBrand        RuleScope = "brand"
	ScopeManufacturer RuleScope = "manufacturer"
	ScopeCategory     RuleScope = "category"
	ScopeGlobal       RuleScope = "global"
)

// IsValid checks if the scope is a known RuleScope
func (s RuleScope) IsValid() bool {
	switch s {
	case ScopeBrand, ScopeManufacturer, ScopeCategory, ScopeGlobal:
		return true
	}
	return false
}

// String returns the string representation of RuleScope
func (s RuleScope) String() string {
	return string(s)
}

// ParseRuleScope parses a scope string case-insensitively
func ParseRuleScope(s string) (RuleScope, error) {
	scope := RuleScope(strings.ToLower(strings.TrimSpace(s)))
	if !scope.IsValid() {
		return "", shared.NewValidationError("unknown rule scope %q", s)
	}
	return scope, nil
}

var minMarkupPercent = decimal.NewFromInt(-100)

// PriceBounds holds optional lower and upper limits for one price kind.
// A nil side imposes no constraint.
type PriceBounds struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

// Clamp moves value into the bounds, touching only the violated side.
func (b PriceBounds) Clamp(value decimal.Decimal) decimal.Decimal {
	if b.Min != nil && value.LessThan(*b.Min) {
		return *b.Min
	}
	if b.Max != nil && value.GreaterThan(*b.Max) {
		return *b.Max
	}
	return value
}

func (b PriceBounds) validate(kind string) error {
	if b.Min != nil && b.Min.IsNegative() {
		return shared.NewValidationError("minimum %s price cannot be negative", kind)
	}
	if b.Max != nil && b.Max.IsNegative() {
		return shared.NewValidationError("maximum %s price cannot be negative", kind)
	}
	if b.Min != nil && b.Max != nil && b.Min.GreaterThan(*b.Max) {
		return shared.NewValidationError("minimum %s price cannot exceed maximum", kind)
	}
	return nil
}

// MarkupRule maps a product scope to B2B and retail markup percentages
type MarkupRule struct {
	shared.BaseAggregateRoot
	Name                string
	Scope               RuleScope
	TargetID            *uuid.UUID
	Priority            int
	B2BMarkupPercent    decimal.Decimal
	RetailMarkupPercent decimal.Decimal
	B2BBounds           PriceBounds
	RetailBounds        PriceBounds
	Active              bool
	CreatedBy           *uuid.UUID
}

// MarkupRuleInput carries the mutable attributes of a rule
type MarkupRuleInput struct {
	Name                string
	Scope               RuleScope
	TargetID            *uuid.UUID
	Priority            int
	B2BMarkupPercent    decimal.Decimal
	RetailMarkupPercent decimal.Decimal
	B2BBounds           PriceBounds
	RetailBounds        PriceBounds
	Active              bool
}

// ErrRuleTargetRequired is returned when a non-global rule has no target
var ErrRuleTargetRequired = shared.NewPreconditionError(shared.CodeRuleTargetRequired, "Non-global markup rules require a target identifier")

// NewMarkupRule creates a validated markup rule
func NewMarkupRule(input MarkupRuleInput, createdBy *uuid.UUID) (*MarkupRule, error) {
	rule := &MarkupRule{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CreatedBy:         createdBy,
	}
	if err := rule.apply(input); err != nil {
		return nil, err
	}
	return rule, nil
}

// Update replaces the rule's attributes after validating them
func (r *MarkupRule) Update(input MarkupRuleInput) error {
	if err := r.apply(input); err != nil {
		return err
	}
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

func (r *MarkupRule) apply(input MarkupRuleInput) error {
	if err := ValidateRuleInput(input); err != nil {
		return err
	}
	r.Name = strings.TrimSpace(input.Name)
	r.Scope = input.Scope
	r.TargetID = input.TargetID
	if input.Scope == ScopeGlobal {
		r.TargetID = nil
	}
	r.Priority = input.Priority
	r.B2BMarkupPercent = input.B2BMarkupPercent
	r.RetailMarkupPercent = input.RetailMarkupPercent
	r.B2BBounds = input.B2BBounds
	r.RetailBounds = input.RetailBounds
	r.Active = input.Active
	return nil
}

// ValidateRuleInput checks the structural invariants of a rule.
// Whether the target actually exists is checked by the application layer.
func ValidateRuleInput(input MarkupRuleInput) error {
	if !input.Scope.IsValid() {
		return shared.NewValidationError("unknown rule scope %q", input.Scope)
	}
	if input.Scope == ScopeGlobal {
		if input.TargetID != nil && *input.TargetID != uuid.Nil {
			return shared.NewValidationError("global markup rules cannot have a target identifier")
		}
	} else if input.TargetID == nil || *input.TargetID == uuid.Nil {
		return ErrRuleTargetRequired
	}
	if input.B2BMarkupPercent.LessThan(minMarkupPercent) {
		return shared.NewValidationError("B2B markup percent cannot be below -100")
	}
	if input.RetailMarkupPercent.LessThan(minMarkupPercent) {
		return shared.NewValidationError("retail markup percent cannot be below -100")
	}
	if err := input.B2BBounds.validate("B2B"); err != nil {
		return err
	}
	return input.RetailBounds.validate("retail")
}

// Matches reports whether the rule applies to a product
func (r *MarkupRule) Matches(p Product) bool {
	if !r.Active {
		return false
	}
	if r.Scope == ScopeGlobal {
		return true
	}
	target := p.TargetFor(r.Scope)
	return target != nil && r.TargetID != nil && *target == *r.TargetID
}
