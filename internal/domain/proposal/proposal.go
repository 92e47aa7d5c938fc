package proposal

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/proposals/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const noteTimeLayout = "2006-01-02 15:04"

// ERPDocument holds the financial identifiers returned by the ERP
type ERPDocument struct {
	QuoteNumber string
	Series      string
	SeriesNum   string
	FinDoc      string
	Turnover    decimal.Decimal
	VATAmount   decimal.Decimal
	RawResponse string
	SyncedAt    *time.Time
}

// IsSynced reports whether an ERP document has been created
func (d ERPDocument) IsSynced() bool {
	return d.FinDoc != "" || d.QuoteNumber != ""
}

// Proposal is the commercial document sent to a customer
type Proposal struct {
	shared.BaseAggregateRoot
	CustomerID   uuid.UUID
	ContactID    *uuid.UUID
	LeadID       *uuid.UUID
	RFPID        *uuid.UUID
	SiteSurveyID *uuid.UUID

	Title            string
	Description      string
	Scope            string
	Duration         string
	PlannedStartDate *time.Time
	PlannedEndDate   *time.Time

	GeneratedContent     string
	TechnicalDescription string
	Equipment            []EquipmentLine

	Status Status
	Stage  Stage
	ERP    ERPDocument

	DocumentURL   string
	RevisionNotes string
	Notes         string

	Recipients []string
	SentCount  int
	LastSentAt *time.Time
	SentBy     *uuid.UUID

	GeneratedBy  *uuid.UUID
	ApprovedDate *time.Time
	RejectedDate *time.Time
	WonDate      *time.Time
}

// Details carries the descriptive content of a proposal
type Details struct {
	ContactID            *uuid.UUID
	LeadID               *uuid.UUID
	Title                string
	Description          string
	Scope                string
	Duration             string
	PlannedStartDate     *time.Time
	PlannedEndDate       *time.Time
	GeneratedContent     string
	TechnicalDescription string
	Equipment            []EquipmentLine
	DocumentURL          string
}

// NewProposal creates a draft proposal for a customer and source document
func NewProposal(customerID uuid.UUID, source SourceKey) (*Proposal, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("customer is required")
	}
	if err := source.Validate(); err != nil {
		return nil, err
	}
	p := &Proposal{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Status:            StatusDraft,
		Stage:             StageInitial,
	}
	p.attachSource(source)
	return p, nil
}

func (p *Proposal) attachSource(source SourceKey) {
	if isSet(source.SiteSurveyID) {
		p.SiteSurveyID = source.SiteSurveyID
	}
	if isSet(source.RFPID) {
		p.RFPID = source.RFPID
	}
}

// Source returns the proposal's source document key
func (p *Proposal) Source() SourceKey {
	return SourceKey{SiteSurveyID: p.SiteSurveyID, RFPID: p.RFPID}
}

// ApplyGeneration stores generated content. When a previous generated document
// is replaced its URL is kept as a revision note.
func (p *Proposal) ApplyGeneration(source SourceKey, d Details, actor uuid.UUID, now time.Time) error {
	if strings.TrimSpace(d.Title) == "" {
		return shared.NewValidationError("proposal title is required")
	}
	if d.PlannedStartDate != nil && d.PlannedEndDate != nil && d.PlannedEndDate.Before(*d.PlannedStartDate) {
		return shared.NewValidationError("planned end date cannot be before planned start date")
	}
	for i, line := range d.Equipment {
		if !line.Quantity.IsPositive() {
			return shared.NewValidationError("equipment line %d quantity must be positive", i+1)
		}
		if line.UnitPrice != nil && line.UnitPrice.IsNegative() {
			return shared.NewValidationError("equipment line %d unit price cannot be negative", i+1)
		}
	}

	regenerated := p.Stage != StageInitial || p.GeneratedContent != "" || p.DocumentURL != ""
	if regenerated {
		note := "Proposal regenerated"
		if d.DocumentURL != "" && p.DocumentURL != "" && p.DocumentURL != d.DocumentURL {
			note = "Proposal regenerated, previous document: " + p.DocumentURL
		}
		p.appendRevisionNote(now, note)
	}

	p.attachSource(source)
	if d.ContactID != nil {
		p.ContactID = d.ContactID
	}
	if d.LeadID != nil {
		p.LeadID = d.LeadID
	}
	p.Title = strings.TrimSpace(d.Title)
	p.Description = d.Description
	p.Scope = d.Scope
	p.Duration = d.Duration
	p.PlannedStartDate = d.PlannedStartDate
	p.PlannedEndDate = d.PlannedEndDate
	p.GeneratedContent = d.GeneratedContent
	p.TechnicalDescription = d.TechnicalDescription
	p.Equipment = d.Equipment
	if d.DocumentURL != "" {
		p.DocumentURL = d.DocumentURL
	}
	if p.Stage == StageInitial {
		p.Stage = StageContentGenerated
	}
	p.GeneratedBy = &actor
	p.touch(now)
	p.AddDomainEvent(NewProposalGeneratedEvent(p, regenerated, actor))
	return nil
}

// ApplyERPDocument stores the ERP result on the proposal
func (p *Proposal) ApplyERPDocument(doc ERPDocument, actor uuid.UUID, now time.Time) {
	note := fmt.Sprintf("ERP document %s created (findoc %s)", doc.QuoteNumber, doc.FinDoc)
	if p.ERP.IsSynced() && p.ERP.FinDoc != doc.FinDoc {
		note = fmt.Sprintf("ERP document %s replaces %s (findoc %s, previously %s)",
			doc.QuoteNumber, p.ERP.QuoteNumber, doc.FinDoc, p.ERP.FinDoc)
	}
	synced := now
	doc.SyncedAt = &synced
	p.ERP = doc
	p.Stage = StageERPSynced
	p.appendRevisionNote(now, note)
	p.touch(now)
	p.AddDomainEvent(NewProposalSyncedToERPEvent(p, actor))
}

// RecordSend tracks a delivery of the proposal to recipients. A proposal that
// has not left the office yet moves to SENT.
func (p *Proposal) RecordSend(recipients []string, actor uuid.UUID, now time.Time) error {
	cleaned := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			cleaned = append(cleaned, r)
		}
	}
	if len(cleaned) == 0 {
		return shared.NewValidationError("at least one recipient is required")
	}

	switch p.Status {
	case StatusDraft, StatusInReview, StatusApproved, StatusRevised:
		if _, err := p.TransitionTo(StatusSent, actor, "sent to "+strings.Join(cleaned, ", "), now); err != nil {
			return err
		}
	default:
		p.appendNote(now, fmt.Sprintf("Sent to %s by %s", strings.Join(cleaned, ", "), actor))
		p.touch(now)
	}

	p.Recipients = cleaned
	p.SentCount++
	sentAt := now
	p.LastSentAt = &sentAt
	p.SentBy = &actor
	p.Stage = StageSent
	return nil
}

func (p *Proposal) appendNote(now time.Time, text string) {
	line := fmt.Sprintf("[%s] %s", now.UTC().Format(noteTimeLayout), text)
	if p.Notes == "" {
		p.Notes = line
		return
	}
	p.Notes += "\n" + line
}

func (p *Proposal) appendRevisionNote(now time.Time, text string) {
	line := fmt.Sprintf("[%s] %s", now.UTC().Format(noteTimeLayout), text)
	if p.RevisionNotes == "" {
		p.RevisionNotes = line
		return
	}
	p.RevisionNotes += "\n" + line
}

func (p *Proposal) touch(now time.Time) {
	p.UpdatedAt = now
	p.IncrementVersion()
}
