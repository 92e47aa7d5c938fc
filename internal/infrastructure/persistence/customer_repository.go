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

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*crm.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("customer")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindContactByID finds a contact by its ID
func (r *GormCustomerRepository) FindContactByID(ctx context.Context, id uuid.UUID) (*crm.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("contact")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ crm.CustomerRepository = (*GormCustomerRepository)(nil)
