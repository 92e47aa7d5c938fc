package persistence

import (
	"context"
	"errors"

	"github.com/erp/proposals/internal/domain/crm"
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/erp/proposals/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSourceDocumentRepository reads RFPs and site surveys
type GormSourceDocumentRepository struct {
	db *gorm.DB
}

// NewGormSourceDocumentRepository creates a new GormSourceDocumentRepository
func NewGormSourceDocumentRepository(db *gorm.DB) *GormSourceDocumentRepository {
	return &GormSourceDocumentRepository{db: db}
}

// FindRFP finds an RFP by its ID
func (r *GormSourceDocumentRepository) FindRFP(ctx context.Context, id uuid.UUID) (*crm.RFP, error) {
	var model models.RFPModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("rfp")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindSiteSurvey finds a site survey by its ID
func (r *GormSourceDocumentRepository) FindSiteSurvey(ctx context.Context, id uuid.UUID) (*crm.SiteSurvey, error) {
	var model models.SiteSurveyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("site survey")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormSourceDocumentRepository implements SourceDocumentRepository
var _ crm.SourceDocumentRepository = (*GormSourceDocumentRepository)(nil)
