package models

import (
	"encoding/json"
	"time"

	"github.com/erp/proposals/internal/domain/proposal"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// modelLogger reports conversion problems through the global logger
func modelLogger() *zap.Logger {
	return zap.L().Named("proposal.models")
}

// ProposalModel is the persistence model for the Proposal aggregate.
// At most one proposal exists per site survey, and per RFP when no survey is set.
type ProposalModel struct {
	AggregateModel
	CustomerID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ContactID    *uuid.UUID `gorm:"type:uuid"`
	LeadID       *uuid.UUID `gorm:"type:uuid;index"`
	RFPID        *uuid.UUID `gorm:"column:rfp_id;type:uuid;uniqueIndex:idx_proposals_rfp_live,where:site_survey_id IS NULL"`
	SiteSurveyID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_proposals_site_survey"`

	Title            string `gorm:"type:varchar(300);not null"`
	Description      string `gorm:"type:text"`
	Scope            string `gorm:"type:text"`
	Duration         string `gorm:"type:varchar(100)"`
	PlannedStartDate *time.Time
	PlannedEndDate   *time.Time

	GeneratedContent     string `gorm:"type:text"`
	TechnicalDescription string `gorm:"type:text"`
	EquipmentJSON        string `gorm:"column:equipment;type:jsonb;not null;default:'[]'"`

	Status proposal.Status `gorm:"type:varchar(20);not null;index"`
	Stage  proposal.Stage  `gorm:"type:varchar(30);not null"`

	ERPQuoteNumber string          `gorm:"column:erp_quote_number;type:varchar(100)"`
	ERPSeries      string          `gorm:"column:erp_series;type:varchar(50)"`
	ERPSeriesNum   string          `gorm:"column:erp_series_num;type:varchar(50)"`
	ERPFinDoc      string          `gorm:"column:erp_findoc;type:varchar(50);index"`
	ERPTurnover    decimal.Decimal `gorm:"column:erp_turnover;type:decimal(18,4);not null;default:0"`
	ERPVATAmount   decimal.Decimal `gorm:"column:erp_vat_amount;type:decimal(18,4);not null;default:0"`
	ERPResponse    string          `gorm:"column:erp_response;type:text"`
	ERPSyncedAt    *time.Time      `gorm:"column:erp_synced_at"`

	DocumentURL   string `gorm:"type:varchar(1000)"`
	RevisionNotes string `gorm:"type:text"`
	Notes         string `gorm:"type:text"`

	RecipientsJSON string     `gorm:"column:recipients;type:jsonb;not null;default:'[]'"`
	SentCount      int        `gorm:"not null;default:0"`
	LastSentAt     *time.Time
	SentBy         *uuid.UUID `gorm:"type:uuid"`

	GeneratedBy  *uuid.UUID `gorm:"type:uuid"`
	ApprovedDate *time.Time
	RejectedDate *time.Time
	WonDate      *time.Time
}

// TableName returns the table name for GORM
func (ProposalModel) TableName() string {
	return "proposals"
}

// ToDomain converts the persistence model to a domain Proposal.
func (m *ProposalModel) ToDomain() *proposal.Proposal {
	p := &proposal.Proposal{
		BaseAggregateRoot:    m.ToAggregateRoot(),
		CustomerID:           m.CustomerID,
		ContactID:            m.ContactID,
		LeadID:               m.LeadID,
		RFPID:                m.RFPID,
		SiteSurveyID:         m.SiteSurveyID,
		Title:                m.Title,
		Description:          m.Description,
		Scope:                m.Scope,
		Duration:             m.Duration,
		PlannedStartDate:     m.PlannedStartDate,
		PlannedEndDate:       m.PlannedEndDate,
		GeneratedContent:     m.GeneratedContent,
		TechnicalDescription: m.TechnicalDescription,
		Equipment:            make([]proposal.EquipmentLine, 0),
		Status:               m.Status,
		Stage:                m.Stage,
		ERP: proposal.ERPDocument{
			QuoteNumber: m.ERPQuoteNumber,
			Series:      m.ERPSeries,
			SeriesNum:   m.ERPSeriesNum,
			FinDoc:      m.ERPFinDoc,
			Turnover:    m.ERPTurnover,
			VATAmount:   m.ERPVATAmount,
			RawResponse: m.ERPResponse,
			SyncedAt:    m.ERPSyncedAt,
		},
		DocumentURL:   m.DocumentURL,
		RevisionNotes: m.RevisionNotes,
		Notes:         m.Notes,
		Recipients:    make([]string, 0),
		SentCount:     m.SentCount,
		LastSentAt:    m.LastSentAt,
		SentBy:        m.SentBy,
		GeneratedBy:   m.GeneratedBy,
		ApprovedDate:  m.ApprovedDate,
		RejectedDate:  m.RejectedDate,
		WonDate:       m.WonDate,
	}

	if m.EquipmentJSON != "" && m.EquipmentJSON != "[]" {
		if err := json.Unmarshal([]byte(m.EquipmentJSON), &p.Equipment); err != nil {
			modelLogger().Warn("failed to parse equipment JSON",
				zap.String("proposal_id", m.ID.String()),
				zap.Error(err))
		}
	}
	if m.RecipientsJSON != "" && m.RecipientsJSON != "[]" {
		if err := json.Unmarshal([]byte(m.RecipientsJSON), &p.Recipients); err != nil {
			modelLogger().Warn("failed to parse recipients JSON",
				zap.String("proposal_id", m.ID.String()),
				zap.Error(err))
		}
	}
	return p
}

// FromDomain populates the persistence model from a domain Proposal.
func (m *ProposalModel) FromDomain(p *proposal.Proposal) error {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.CustomerID = p.CustomerID
	m.ContactID = p.ContactID
	m.LeadID = p.LeadID
	m.RFPID = p.RFPID
	m.SiteSurveyID = p.SiteSurveyID
	m.Title = p.Title
	m.Description = p.Description
	m.Scope = p.Scope
	m.Duration = p.Duration
	m.PlannedStartDate = p.PlannedStartDate
	m.PlannedEndDate = p.PlannedEndDate
	m.GeneratedContent = p.GeneratedContent
	m.TechnicalDescription = p.TechnicalDescription
	m.Status = p.Status
	m.Stage = p.Stage
	m.ERPQuoteNumber = p.ERP.QuoteNumber
	m.ERPSeries = p.ERP.Series
	m.ERPSeriesNum = p.ERP.SeriesNum
	m.ERPFinDoc = p.ERP.FinDoc
	m.ERPTurnover = p.ERP.Turnover
	m.ERPVATAmount = p.ERP.VATAmount
	m.ERPResponse = p.ERP.RawResponse
	m.ERPSyncedAt = p.ERP.SyncedAt
	m.DocumentURL = p.DocumentURL
	m.RevisionNotes = p.RevisionNotes
	m.Notes = p.Notes
	m.SentCount = p.SentCount
	m.LastSentAt = p.LastSentAt
	m.SentBy = p.SentBy
	m.GeneratedBy = p.GeneratedBy
	m.ApprovedDate = p.ApprovedDate
	m.RejectedDate = p.RejectedDate
	m.WonDate = p.WonDate

	equipment := p.Equipment
	if equipment == nil {
		equipment = []proposal.EquipmentLine{}
	}
	raw, err := json.Marshal(equipment)
	if err != nil {
		return err
	}
	m.EquipmentJSON = string(raw)

	recipients := p.Recipients
	if recipients == nil {
		recipients = []string{}
	}
	raw, err = json.Marshal(recipients)
	if err != nil {
		return err
	}
	m.RecipientsJSON = string(raw)
	return nil
}
