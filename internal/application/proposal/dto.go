package proposal

import (
	"time"

	"github.com/erp/proposals/internal/domain/crm"
	"github.com/erp/proposals/internal/domain/proposal"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EquipmentLineRequest is one equipment line of a generation request.
// A line with a product and no unit price is priced by the markup rules.
type EquipmentLineRequest struct {
	ProductID   *uuid.UUID       `json:"product_id"`
	Name        string           `json:"name" binding:"max=300"`
	Description string           `json:"description" binding:"max=2000"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	ERPCode     string           `json:"erp_code" binding:"max=100"`
	IsService   bool             `json:"is_service"`
}

// GenerateProposalRequest creates or refreshes the proposal of a source document
type GenerateProposalRequest struct {
	CustomerID           uuid.UUID              `json:"customer_id" binding:"required"`
	ContactID            *uuid.UUID             `json:"contact_id"`
	LeadID               *uuid.UUID             `json:"lead_id"`
	RFPID                *uuid.UUID             `json:"rfp_id"`
	SiteSurveyID         *uuid.UUID             `json:"site_survey_id"`
	Title                string                 `json:"title" binding:"required,min=1,max=300"`
	Description          string                 `json:"description"`
	Scope                string                 `json:"scope"`
	Duration             string                 `json:"duration" binding:"max=100"`
	PlannedStartDate     *time.Time             `json:"planned_start_date"`
	PlannedEndDate       *time.Time             `json:"planned_end_date"`
	GeneratedContent     string                 `json:"generated_content"`
	TechnicalDescription string                 `json:"technical_description"`
	Equipment            []EquipmentLineRequest `json:"equipment" binding:"dive"`
	DocumentURL          string                 `json:"document_url" binding:"omitempty,url,max=1000"`
}

// SourceKey returns the source document key of the request
func (r GenerateProposalRequest) SourceKey() proposal.SourceKey {
	return proposal.SourceKey{SiteSurveyID: r.SiteSurveyID, RFPID: r.RFPID}
}

// TransitionStatusRequest moves a proposal to a new status.
// The project fields only matter when the transition converts the lead.
type TransitionStatusRequest struct {
	Status           string     `json:"status" binding:"required"`
	Note             string     `json:"note" binding:"max=2000"`
	ProjectManagerID *uuid.UUID `json:"project_manager_id"`
	ProjectStartDate *time.Time `json:"project_start_date"`
	ProjectEndDate   *time.Time `json:"project_end_date"`
}

// RecordSendRequest records a delivery of the proposal
type RecordSendRequest struct {
	Recipients []string `json:"recipients" binding:"required,min=1,dive,required,max=320"`
}

// SendToERPRequest creates the proposal's sales document in the ERP
type SendToERPRequest struct {
	Series   string `json:"series" binding:"omitempty,max=20"`
	Comments string `json:"comments" binding:"max=1000"`
}

// EquipmentLineResponse is one equipment line in API responses
type EquipmentLineResponse struct {
	ProductID   *uuid.UUID       `json:"product_id,omitempty"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal  `json:"line_total"`
	ERPCode     string           `json:"erp_code,omitempty"`
	IsService   bool             `json:"is_service"`
}

// ERPDataResponse summarizes the ERP document of a proposal
type ERPDataResponse struct {
	QuoteNumber string          `json:"quote_number"`
	FinDoc      string          `json:"findoc"`
	Series      string          `json:"series"`
	SeriesNum   string          `json:"series_num"`
	Turnover    decimal.Decimal `json:"turnover"`
	VATAmount   decimal.Decimal `json:"vat_amount"`
	SyncedAt    *time.Time      `json:"synced_at,omitempty"`
}

// ProposalResponse represents a proposal in API responses
type ProposalResponse struct {
	ID                   uuid.UUID               `json:"id"`
	CustomerID           uuid.UUID               `json:"customer_id"`
	ContactID            *uuid.UUID              `json:"contact_id,omitempty"`
	LeadID               *uuid.UUID              `json:"lead_id,omitempty"`
	RFPID                *uuid.UUID              `json:"rfp_id,omitempty"`
	SiteSurveyID         *uuid.UUID              `json:"site_survey_id,omitempty"`
	Title                string                  `json:"title"`
	Description          string                  `json:"description"`
	Scope                string                  `json:"scope"`
	Duration             string                  `json:"duration"`
	PlannedStartDate     *time.Time              `json:"planned_start_date,omitempty"`
	PlannedEndDate       *time.Time              `json:"planned_end_date,omitempty"`
	GeneratedContent     string                  `json:"generated_content"`
	TechnicalDescription string                  `json:"technical_description"`
	Equipment            []EquipmentLineResponse `json:"equipment"`
	EquipmentTotal       decimal.Decimal         `json:"equipment_total"`
	Status               string                  `json:"status"`
	Stage                string                  `json:"stage"`
	ERP                  *ERPDataResponse        `json:"erp,omitempty"`
	DocumentURL          string                  `json:"document_url,omitempty"`
	RevisionNotes        string                  `json:"revision_notes"`
	Notes                string                  `json:"notes"`
	Recipients           []string                `json:"recipients"`
	SentCount            int                     `json:"sent_count"`
	LastSentAt           *time.Time              `json:"last_sent_at,omitempty"`
	SentBy               *uuid.UUID              `json:"sent_by,omitempty"`
	GeneratedBy          *uuid.UUID              `json:"generated_by,omitempty"`
	ApprovedDate         *time.Time              `json:"approved_date,omitempty"`
	RejectedDate         *time.Time              `json:"rejected_date,omitempty"`
	WonDate              *time.Time              `json:"won_date,omitempty"`
	CreatedAt            time.Time               `json:"created_at"`
	UpdatedAt            time.Time               `json:"updated_at"`
	Version              int                     `json:"version"`
}

// ToProposalResponse converts a domain proposal to a response
func ToProposalResponse(p *proposal.Proposal) ProposalResponse {
	equipment := make([]EquipmentLineResponse, len(p.Equipment))
	for i, e := range p.Equipment {
		equipment[i] = EquipmentLineResponse{
			ProductID:   e.ProductID,
			Name:        e.Name,
			Description: e.Description,
			Quantity:    e.Quantity,
			UnitPrice:   e.UnitPrice,
			LineTotal:   e.LineTotal(),
			ERPCode:     e.ERPCode,
			IsService:   e.IsService,
		}
	}
	recipients := p.Recipients
	if recipients == nil {
		recipients = []string{}
	}

	resp := ProposalResponse{
		ID:                   p.ID,
		CustomerID:           p.CustomerID,
		ContactID:            p.ContactID,
		LeadID:               p.LeadID,
		RFPID:                p.RFPID,
		SiteSurveyID:         p.SiteSurveyID,
		Title:                p.Title,
		Description:          p.Description,
		Scope:                p.Scope,
		Duration:             p.Duration,
		PlannedStartDate:     p.PlannedStartDate,
		PlannedEndDate:       p.PlannedEndDate,
		GeneratedContent:     p.GeneratedContent,
		TechnicalDescription: p.TechnicalDescription,
		Equipment:            equipment,
		EquipmentTotal:       proposal.EquipmentTotal(p.Equipment),
		Status:               p.Status.String(),
		Stage:                string(p.Stage),
		DocumentURL:          p.DocumentURL,
		RevisionNotes:        p.RevisionNotes,
		Notes:                p.Notes,
		Recipients:           recipients,
		SentCount:            p.SentCount,
		LastSentAt:           p.LastSentAt,
		SentBy:               p.SentBy,
		GeneratedBy:          p.GeneratedBy,
		ApprovedDate:         p.ApprovedDate,
		RejectedDate:         p.RejectedDate,
		WonDate:              p.WonDate,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
		Version:              p.Version,
	}
	if p.ERP.IsSynced() {
		data := toERPData(p.ERP)
		resp.ERP = &data
	}
	return resp
}

func toERPData(d proposal.ERPDocument) ERPDataResponse {
	return ERPDataResponse{
		QuoteNumber: d.QuoteNumber,
		FinDoc:      d.FinDoc,
		Series:      d.Series,
		SeriesNum:   d.SeriesNum,
		Turnover:    d.Turnover,
		VATAmount:   d.VATAmount,
		SyncedAt:    d.SyncedAt,
	}
}

// ProjectAssignmentResponse is one project team member
type ProjectAssignmentResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

// ProjectResponse is the project created by a lead conversion
type ProjectResponse struct {
	ID          uuid.UUID                   `json:"id"`
	Name        string                      `json:"name"`
	Description string                      `json:"description"`
	CustomerID  uuid.UUID                   `json:"customer_id"`
	LeadID      *uuid.UUID                  `json:"lead_id,omitempty"`
	ProposalID  *uuid.UUID                  `json:"proposal_id,omitempty"`
	StartDate   *time.Time                  `json:"start_date,omitempty"`
	EndDate     *time.Time                  `json:"end_date,omitempty"`
	Team        []ProjectAssignmentResponse `json:"team"`
}

// ToProjectResponse converts a domain project to a response
func ToProjectResponse(p *crm.Project) *ProjectResponse {
	team := make([]ProjectAssignmentResponse, len(p.Assignments))
	for i, a := range p.Assignments {
		team[i] = ProjectAssignmentResponse{UserID: a.UserID, Role: a.Role}
	}
	return &ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CustomerID:  p.CustomerID,
		LeadID:      p.LeadID,
		ProposalID:  p.ProposalID,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Team:        team,
	}
}

// TransitionResult is the outcome of a status change
type TransitionResult struct {
	Proposal      ProposalResponse `json:"proposal"`
	Changed       bool             `json:"changed"`
	LeadConverted bool             `json:"lead_converted"`
	Project       *ProjectResponse `json:"project,omitempty"`
}

// GenerateResult is the outcome of a generation
type GenerateResult struct {
	Proposal ProposalResponse `json:"proposal"`
	Created  bool             `json:"created"`
}

// ERPSyncResult is the outcome of a successful ERP send
type ERPSyncResult struct {
	Proposal       ProposalResponse `json:"proposal"`
	ProposalNumber string           `json:"proposal_number"`
	ERPData        ERPDataResponse  `json:"erp_data"`
}

// LineValidationResult is the outcome of an ERP line dry run
type LineValidationResult struct {
	Valid        bool               `json:"valid"`
	MissingCodes []string           `json:"missingCodes"`
	Lines        []proposal.ERPLine `json:"lines"`
}
