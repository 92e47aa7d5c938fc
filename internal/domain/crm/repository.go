package crm

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository reads customers and contacts
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindContactByID(ctx context.Context, id uuid.UUID) (*Contact, error)
}

// LeadRepository persists leads and their status audit trail
type LeadRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Lead, error)
	Save(ctx context.Context, lead *Lead) error
	// AppendStatusChange adds an audit row; rows are never updated
	AppendStatusChange(ctx context.Context, change *LeadStatusChange) error
	ListStatusChanges(ctx context.Context, leadID uuid.UUID) ([]LeadStatusChange, error)
}

// ProjectRepository persists projects with their assignments
type ProjectRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	// Create inserts the project and all of its assignments
	Create(ctx context.Context, project *Project) error
}

// SourceDocumentRepository reads RFPs and site surveys
type SourceDocumentRepository interface {
	FindRFP(ctx context.Context, id uuid.UUID) (*RFP, error)
	FindSiteSurvey(ctx context.Context, id uuid.UUID) (*SiteSurvey, error)
}
