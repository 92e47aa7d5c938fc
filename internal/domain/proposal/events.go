package proposal

import (
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeProposal is the aggregate type for proposal events
const AggregateTypeProposal = "Proposal"

// Event types
const (
	EventTypeProposalGenerated     = "ProposalGenerated"
	EventTypeProposalStatusChanged = "ProposalStatusChanged"
	EventTypeProposalSyncedToERP   = "ProposalSyncedToERP"
	EventTypeLeadConverted         = "LeadConverted"
)

// ProposalGeneratedEvent is raised when content is generated or regenerated
type ProposalGeneratedEvent struct {
	shared.BaseDomainEvent
	CustomerID  uuid.UUID `json:"customer_id"`
	Regenerated bool      `json:"regenerated"`
	GeneratedBy uuid.UUID `json:"generated_by"`
}

// NewProposalGeneratedEvent creates a ProposalGeneratedEvent
func NewProposalGeneratedEvent(p *Proposal, regenerated bool, actor uuid.UUID) *ProposalGeneratedEvent {
	return &ProposalGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProposalGenerated, AggregateTypeProposal, p.ID),
		CustomerID:      p.CustomerID,
		Regenerated:     regenerated,
		GeneratedBy:     actor,
	}
}

// ProposalStatusChangedEvent is raised on every applied transition
type ProposalStatusChangedEvent struct {
	shared.BaseDomainEvent
	FromStatus Status    `json:"from_status"`
	ToStatus   Status    `json:"to_status"`
	ChangedBy  uuid.UUID `json:"changed_by"`
}

// NewProposalStatusChangedEvent creates a ProposalStatusChangedEvent
func NewProposalStatusChangedEvent(p *Proposal, from, to Status, actor uuid.UUID) *ProposalStatusChangedEvent {
	return &ProposalStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProposalStatusChanged, AggregateTypeProposal, p.ID),
		FromStatus:      from,
		ToStatus:        to,
		ChangedBy:       actor,
	}
}

// ProposalSyncedToERPEvent is raised after the ERP accepted the document
type ProposalSyncedToERPEvent struct {
	shared.BaseDomainEvent
	QuoteNumber string    `json:"quote_number"`
	FinDoc      string    `json:"findoc"`
	SyncedBy    uuid.UUID `json:"synced_by"`
}

// NewProposalSyncedToERPEvent creates a ProposalSyncedToERPEvent
func NewProposalSyncedToERPEvent(p *Proposal, actor uuid.UUID) *ProposalSyncedToERPEvent {
	return &ProposalSyncedToERPEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProposalSyncedToERP, AggregateTypeProposal, p.ID),
		QuoteNumber:     p.ERP.QuoteNumber,
		FinDoc:          p.ERP.FinDoc,
		SyncedBy:        actor,
	}
}

// LeadConvertedEvent is raised when a won proposal converts its lead
type LeadConvertedEvent struct {
	shared.BaseDomainEvent
	LeadID    uuid.UUID `json:"lead_id"`
	ProjectID uuid.UUID `json:"project_id"`
}

// NewLeadConvertedEvent creates a LeadConvertedEvent
func NewLeadConvertedEvent(p *Proposal, leadID, projectID uuid.UUID) *LeadConvertedEvent {
	return &LeadConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeadConverted, AggregateTypeProposal, p.ID),
		LeadID:          leadID,
		ProjectID:       projectID,
	}
}
