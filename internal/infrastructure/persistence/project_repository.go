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

// GormProjectRepository implements ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a project with its assignments
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Project, error) {
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("project")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts the project and its assignments
func (r *GormProjectRepository) Create(ctx context.Context, project *crm.Project) error {
	model := &models.ProjectModel{}
	model.FromDomain(project)
	return r.db.WithContext(ctx).Create(model).Error
}

// Ensure GormProjectRepository implements ProjectRepository
var _ crm.ProjectRepository = (*GormProjectRepository)(nil)
