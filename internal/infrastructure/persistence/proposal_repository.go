package persistence

import (
	"context"
	"errors"

	"github.com/erp/proposals/internal/domain/proposal"
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/erp/proposals/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProposalRepository implements proposal.Repository using GORM
type GormProposalRepository struct {
	db *gorm.DB
}

// NewGormProposalRepository creates a new GormProposalRepository
func NewGormProposalRepository(db *gorm.DB) *GormProposalRepository {
	return &GormProposalRepository{db: db}
}

// FindByID finds a proposal by its ID
func (r *GormProposalRepository) FindByID(ctx context.Context, id uuid.UUID) (*proposal.Proposal, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindByIDForUpdate finds a proposal and row-locks it for the rest of the transaction
func (r *GormProposalRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*proposal.Proposal, error) {
	return r.first(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

// FindBySiteSurvey finds the proposal created from a site survey
func (r *GormProposalRepository) FindBySiteSurvey(ctx context.Context, siteSurveyID uuid.UUID) (*proposal.Proposal, error) {
	return r.first(r.db.WithContext(ctx).Where("site_survey_id = ?", siteSurveyID))
}

// FindByRFP finds the oldest proposal created from an RFP
func (r *GormProposalRepository) FindByRFP(ctx context.Context, rfpID uuid.UUID) (*proposal.Proposal, error) {
	return r.first(r.db.WithContext(ctx).Where("rfp_id = ?", rfpID).Order("created_at ASC"))
}

// Save creates or updates a proposal
func (r *GormProposalRepository) Save(ctx context.Context, p *proposal.Proposal) error {
	model := &models.ProposalModel{}
	if err := model.FromDomain(p); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *GormProposalRepository) first(query *gorm.DB) (*proposal.Proposal, error) {
	var model models.ProposalModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("proposal")
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Ensure GormProposalRepository implements Repository
var _ proposal.Repository = (*GormProposalRepository)(nil)
