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

// GormProductRepository implements pricing.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("product")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds products by ID; missing ids are skipped
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]pricing.Product, error) {
	if len(ids) == 0 {
		return []pricing.Product{}, nil
	}
	var productModels []models.ProductModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&productModels).Error; err != nil {
		return nil, err
	}
	products := make([]pricing.Product, len(productModels))
	for i := range productModels {
		products[i] = *productModels[i].ToDomain()
	}
	return products, nil
}

// SavePricing updates only the pricing columns of a product
func (r *GormProductRepository) SavePricing(ctx context.Context, p *pricing.Product) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"cost":                p.Cost,
			"manual_b2b_price":    p.ManualB2BPrice,
			"manual_retail_price": p.ManualRetailPrice,
			"updated_at":          p.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("product")
	}
	return nil
}

// Ensure GormProductRepository implements ProductRepository
var _ pricing.ProductRepository = (*GormProductRepository)(nil)
