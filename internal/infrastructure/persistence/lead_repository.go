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

// GormLeadRepository implements LeadRepository using GORM
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// FindByID finds a lead by its ID
func (r *GormLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Lead, error) {
	var model models.LeadModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("lead")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a lead
func (r *GormLeadRepository) Save(ctx context.Context, lead *crm.Lead) error {
	model := &models.LeadModel{}
	model.FromDomain(lead)
	return r.db.WithContext(ctx).Save(model).Error
}

// AppendStatusChange inserts a lead audit row
func (r *GormLeadRepository) AppendStatusChange(ctx context.Context, change *crm.LeadStatusChange) error {
	return r.db.WithContext(ctx).Create(models.LeadStatusChangeModelFromDomain(change)).Error
}

// ListStatusChanges returns a lead's audit trail, oldest first
func (r *GormLeadRepository) ListStatusChanges(ctx context.Context, leadID uuid.UUID) ([]crm.LeadStatusChange, error) {
	var rows []models.LeadStatusChangeModel
	if err := r.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("changed_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	changes := make([]crm.LeadStatusChange, len(rows))
	for i := range rows {
		changes[i] = rows[i].ToDomain()
	}
	return changes, nil
}

// Ensure GormLeadRepository implements LeadRepository
var _ crm.LeadRepository = (*GormLeadRepository)(nil)
