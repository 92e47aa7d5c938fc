package persistence

import (
	"context"
	"fmt"

	"github.com/erp/proposals/internal/domain/pricing"
	"github.com/erp/proposals/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRuleTargetResolver checks that brand, manufacturer and category targets exist
type GormRuleTargetResolver struct {
	db *gorm.DB
}

// NewGormRuleTargetResolver creates a new GormRuleTargetResolver
func NewGormRuleTargetResolver(db *gorm.DB) *GormRuleTargetResolver {
	return &GormRuleTargetResolver{db: db}
}

// TargetExists reports whether the scope's target table holds the id.
// Global rules have no target and always resolve.
func (r *GormRuleTargetResolver) TargetExists(ctx context.Context, scope pricing.RuleScope, id uuid.UUID) (bool, error) {
	var model any
	switch scope {
	case pricing.ScopeGlobal:
		return true, nil
	case pricing.ScopeBrand:
		model = &models.BrandModel{}
	case pricing.ScopeManufacturer:
		model = &models.ManufacturerModel{}
	case pricing.ScopeCategory:
		model = &models.CategoryModel{}
	default:
		return false, fmt.Errorf("unknown rule scope %q", scope)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormRuleTargetResolver implements TargetResolver
var _ pricing.TargetResolver = (*GormRuleTargetResolver)(nil)
