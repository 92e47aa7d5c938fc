package persistence

import (
	"context"

	"github.com/erp/proposals/internal/domain/pricing"
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/erp/proposals/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPricingHistoryRepository is an append-only store of pricing audit rows
type GormPricingHistoryRepository struct {
	db *gorm.DB
}

// NewGormPricingHistoryRepository creates a new GormPricingHistoryRepository
func NewGormPricingHistoryRepository(db *gorm.DB) *GormPricingHistoryRepository {
	return &GormPricingHistoryRepository{db: db}
}

// Append inserts a history row
func (r *GormPricingHistoryRepository) Append(ctx context.Context, entry *pricing.ProductPricingHistory) error {
	return r.db.WithContext(ctx).Create(models.PricingHistoryModelFromDomain(entry)).Error
}

// ListByProduct returns a page of a product's history with the total count.
// Rows are ordered newest first unless the filter names a whitelisted column.
func (r *GormPricingHistoryRepository) ListByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]pricing.ProductPricingHistory, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.PricingHistoryModel{}).
		Where("product_id = ?", productID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, PricingHistorySortFields, "recorded_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var rows []models.PricingHistoryModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order(orderBy + " " + orderDir).
		Order("id").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]pricing.ProductPricingHistory, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, total, nil
}

// Ensure GormPricingHistoryRepository implements PricingHistoryRepository
var _ pricing.PricingHistoryRepository = (*GormPricingHistoryRepository)(nil)
