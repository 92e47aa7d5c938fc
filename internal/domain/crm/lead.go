package crm

import (
	"time"

	"github.com/erp/proposals/internal/domain/shared"
	"github.com/google/uuid"
)

// LeadStatus represents the commercial status of a lead
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "NEW"
	LeadStatusContacted LeadStatus = "CONTACTED"
	LeadStatusQualified LeadStatus = "QUALIFIED"
	LeadStatusProposal  LeadStatus = "PROPOSAL"
	LeadStatusClosed    LeadStatus = "CLOSED"
	LeadStatusLost      LeadStatus = "LOST"
)

// StageClosedWon marks a lead converted into a project
const StageClosedWon = "CLOSED_WON"

// Lead is an opportunity that may originate a proposal
type Lead struct {
	shared.BaseAggregateRoot
	Title       string
	CustomerID  *uuid.UUID
	Status      LeadStatus
	Stage       string
	AssigneeID  *uuid.UUID
	ProjectID   *uuid.UUID
	ConvertedAt *time.Time
}

// IsClosed reports whether the lead has already been closed
func (l *Lead) IsClosed() bool {
	return l.Status == LeadStatusClosed
}

// LeadStatusChange is an audit row for a lead status change
type LeadStatusChange struct {
	ID         uuid.UUID
	LeadID     uuid.UUID
	FromStatus LeadStatus
	ToStatus   LeadStatus
	FromStage  string
	ToStage    string
	ChangedBy  uuid.UUID
	Reason     string
	ChangedAt  time.Time
}

// CloseAsWon closes the lead as won and returns the audit row to append.
func (l *Lead) CloseAsWon(changedBy uuid.UUID, reason string, now time.Time) (LeadStatusChange, error) {
	if l.IsClosed() {
		return LeadStatusChange{}, shared.NewDomainError(shared.CodeLeadAlreadyClosed, "Lead is already closed")
	}
	change := LeadStatusChange{
		ID:         uuid.New(),
		LeadID:     l.ID,
		FromStatus: l.Status,
		ToStatus:   LeadStatusClosed,
		FromStage:  l.Stage,
		ToStage:    StageClosedWon,
		ChangedBy:  changedBy,
		Reason:     reason,
		ChangedAt:  now,
	}
	l.Status = LeadStatusClosed
	l.Stage = StageClosedWon
	l.ConvertedAt = &now
	l.UpdatedAt = now
	l.IncrementVersion()
	return change, nil
}

// LinkProject records the project the lead was converted into
func (l *Lead) LinkProject(projectID uuid.UUID) {
	l.ProjectID = &projectID
}
