package persistence

import (
	"context"
	"errors"

	"github.com/erp/proposals/internal/domain/pricing"
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/erp/proposals/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMarkupRuleRepository implements MarkupRuleRepository using GORM
type GormMarkupRuleRepository struct {
	db *gorm.DB
}

// NewGormMarkupRuleRepository creates a new GormMarkupRuleRepository
func NewGormMarkupRuleRepository(db *gorm.DB) *GormMarkupRuleRepository {
	return &GormMarkupRuleRepository{db: db}
}

// FindByID finds a markup rule by its ID
func (r *GormMarkupRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.MarkupRule, error) {
	var model models.MarkupRuleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("markup rule")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists rules, highest priority first
func (r *GormMarkupRuleRepository) FindAll(ctx context.Context, filter pricing.RuleFilter) ([]pricing.MarkupRule, error) {
	query := r.db.WithContext(ctx).Model(&models.MarkupRuleModel{})
	if filter.Scope != nil {
		query = query.Where("scope = ?", *filter.Scope)
	}
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}

	var ruleModels []models.MarkupRuleModel
	if err := query.Order("priority DESC").Order("created_at ASC").Find(&ruleModels).Error; err != nil {
		return nil, err
	}
	return toRules(ruleModels), nil
}

// FindApplicable returns active global rules plus active rules targeting the
// product's brand, manufacturer or category. Selection among them is left to
// pricing.SelectRule.
func (r *GormMarkupRuleRepository) FindApplicable(ctx context.Context, p pricing.Product) ([]pricing.MarkupRule, error) {
	cond := r.db.Where("scope = ?", pricing.ScopeGlobal)
	for _, scope := range []pricing.RuleScope{pricing.ScopeBrand, pricing.ScopeManufacturer, pricing.ScopeCategory} {
		if target := p.TargetFor(scope); target != nil {
			cond = cond.Or("scope = ? AND target_id = ?", scope, *target)
		}
	}

	var ruleModels []models.MarkupRuleModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where(cond).
		Order("priority DESC").
		Find(&ruleModels).Error; err != nil {
		return nil, err
	}
	return toRules(ruleModels), nil
}

// Save creates or updates a markup rule
func (r *GormMarkupRuleRepository) Save(ctx context.Context, rule *pricing.MarkupRule) error {
	model := models.MarkupRuleModelFromDomain(rule)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a markup rule
func (r *GormMarkupRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MarkupRuleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("markup rule")
	}
	return nil
}

func toRules(ruleModels []models.MarkupRuleModel) []pricing.MarkupRule {
	rules := make([]pricing.MarkupRule, len(ruleModels))
	for i := range ruleModels {
		rules[i] = *ruleModels[i].ToDomain()
	}
	return rules
}

// Ensure GormMarkupRuleRepository implements MarkupRuleRepository
var _ pricing.MarkupRuleRepository = (*GormMarkupRuleRepository)(nil)
