package proposal

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists proposals.
// Lookups return shared.ErrNotFound when no proposal matches.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Proposal, error)
	// FindByIDForUpdate also locks the row until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Proposal, error)
	// FindBySiteSurvey returns the live proposal for a site survey
	FindBySiteSurvey(ctx context.Context, siteSurveyID uuid.UUID) (*Proposal, error)
	// FindByRFP returns the live proposal for an RFP
	FindByRFP(ctx context.Context, rfpID uuid.UUID) (*Proposal, error)
	// Save inserts or updates the proposal
	Save(ctx context.Context, p *Proposal) error
}
