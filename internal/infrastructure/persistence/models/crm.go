package models

import (
	"time"

	"github.com/erp/proposals/internal/domain/crm"
	"github.com/google/uuid"
)

// CustomerModel is the persistence model for a customer.
type CustomerModel struct {
	BaseModel
	Name    string `gorm:"type:varchar(200);not null"`
	Email   string `gorm:"type:varchar(200)"`
	ERPTrdr string `gorm:"column:erp_trdr;type:varchar(50);index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer.
func (m *CustomerModel) ToDomain() *crm.Customer {
	return &crm.Customer{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Email:      m.Email,
		ERPTrdr:    m.ERPTrdr,
	}
}

// FromDomain populates the persistence model from a domain Customer.
func (m *CustomerModel) FromDomain(c *crm.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Email = c.Email
	m.ERPTrdr = c.ERPTrdr
}

// ContactModel is the persistence model for a customer contact.
type ContactModel struct {
	BaseModel
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(200);not null"`
	Email      string    `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact.
func (m *ContactModel) ToDomain() *crm.Contact {
	return &crm.Contact{
		BaseEntity: m.BaseModel.ToDomain(),
		CustomerID: m.CustomerID,
		Name:       m.Name,
		Email:      m.Email,
	}
}

// LeadModel is the persistence model for the Lead aggregate.
type LeadModel struct {
	AggregateModel
	Title       string         `gorm:"type:varchar(200);not null"`
	CustomerID  *uuid.UUID     `gorm:"type:uuid;index"`
	Status      crm.LeadStatus `gorm:"type:varchar(20);not null;index"`
	Stage       string         `gorm:"type:varchar(50)"`
	AssigneeID  *uuid.UUID     `gorm:"type:uuid"`
	ProjectID   *uuid.UUID     `gorm:"type:uuid"`
	ConvertedAt *time.Time
}

// TableName returns the table name for GORM
func (LeadModel) TableName() string {
	return "leads"
}

// ToDomain converts the persistence model to a domain Lead.
func (m *LeadModel) ToDomain() *crm.Lead {
	return &crm.Lead{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Title:             m.Title,
		CustomerID:        m.CustomerID,
		Status:            m.Status,
		Stage:             m.Stage,
		AssigneeID:        m.AssigneeID,
		ProjectID:         m.ProjectID,
		ConvertedAt:       m.ConvertedAt,
	}
}

// FromDomain populates the persistence model from a domain Lead.
func (m *LeadModel) FromDomain(l *crm.Lead) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.Title = l.Title
	m.CustomerID = l.CustomerID
	m.Status = l.Status
	m.Stage = l.Stage
	m.AssigneeID = l.AssigneeID
	m.ProjectID = l.ProjectID
	m.ConvertedAt = l.ConvertedAt
}

// LeadStatusChangeModel is an append-only lead audit row.
type LeadStatusChangeModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key"`
	LeadID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	FromStatus crm.LeadStatus `gorm:"type:varchar(20)"`
	ToStatus   crm.LeadStatus `gorm:"type:varchar(20);not null"`
	FromStage  string         `gorm:"type:varchar(50)"`
	ToStage    string         `gorm:"type:varchar(50)"`
	ChangedBy  uuid.UUID      `gorm:"type:uuid;not null"`
	Reason     string         `gorm:"type:text"`
	ChangedAt  time.Time      `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LeadStatusChangeModel) TableName() string {
	return "lead_status_changes"
}

// ToDomain converts the persistence model to a domain audit row.
func (m *LeadStatusChangeModel) ToDomain() crm.LeadStatusChange {
	return crm.LeadStatusChange{
		ID:         m.ID,
		LeadID:     m.LeadID,
		FromStatus: m.FromStatus,
		ToStatus:   m.ToStatus,
		FromStage:  m.FromStage,
		ToStage:    m.ToStage,
		ChangedBy:  m.ChangedBy,
		Reason:     m.Reason,
		ChangedAt:  m.ChangedAt,
	}
}

// LeadStatusChangeModelFromDomain creates a persistence model from a domain audit row.
func LeadStatusChangeModelFromDomain(c *crm.LeadStatusChange) *LeadStatusChangeModel {
	return &LeadStatusChangeModel{
		ID:         c.ID,
		LeadID:     c.LeadID,
		FromStatus: c.FromStatus,
		ToStatus:   c.ToStatus,
		FromStage:  c.FromStage,
		ToStage:    c.ToStage,
		ChangedBy:  c.ChangedBy,
		Reason:     c.Reason,
		ChangedAt:  c.ChangedAt,
	}
}

// ProjectModel is the persistence model for the Project aggregate.
type ProjectModel struct {
	AggregateModel
	Name        string                   `gorm:"type:varchar(200);not null"`
	Description string                   `gorm:"type:text"`
	CustomerID  uuid.UUID                `gorm:"type:uuid;not null;index"`
	LeadID      *uuid.UUID               `gorm:"type:uuid;index"`
	ProposalID  *uuid.UUID               `gorm:"type:uuid;index"`
	StartDate   *time.Time               `gorm:"type:date"`
	EndDate     *time.Time               `gorm:"type:date"`
	CreatedBy   uuid.UUID                `gorm:"type:uuid;not null"`
	Assignments []ProjectAssignmentModel `gorm:"foreignKey:ProjectID;references:ID"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project.
func (m *ProjectModel) ToDomain() *crm.Project {
	p := &crm.Project{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		CustomerID:        m.CustomerID,
		LeadID:            m.LeadID,
		ProposalID:        m.ProposalID,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		CreatedBy:         m.CreatedBy,
		Assignments:       make([]crm.ProjectAssignment, 0, len(m.Assignments)),
	}
	for _, a := range m.Assignments {
		p.Assignments = append(p.Assignments, a.ToDomain())
	}
	return p
}

// FromDomain populates the persistence model from a domain Project.
func (m *ProjectModel) FromDomain(p *crm.Project) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Description = p.Description
	m.CustomerID = p.CustomerID
	m.LeadID = p.LeadID
	m.ProposalID = p.ProposalID
	m.StartDate = p.StartDate
	m.EndDate = p.EndDate
	m.CreatedBy = p.CreatedBy
	m.Assignments = make([]ProjectAssignmentModel, 0, len(p.Assignments))
	for _, a := range p.Assignments {
		m.Assignments = append(m.Assignments, ProjectAssignmentModel{
			ID:        a.ID,
			ProjectID: p.ID,
			UserID:    a.UserID,
			Role:      a.Role,
			CreatedAt: a.CreatedAt,
		})
	}
}

// ProjectAssignmentModel links a user to a project.
type ProjectAssignmentModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_assignment_user,priority:1"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_project_assignment_user,priority:2"`
	Role      string    `gorm:"type:varchar(50);not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProjectAssignmentModel) TableName() string {
	return "project_assignments"
}

// ToDomain converts the persistence model to a domain assignment.
func (m *ProjectAssignmentModel) ToDomain() crm.ProjectAssignment {
	return crm.ProjectAssignment{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}

// RFPModel is the persistence model for a request for proposal.
type RFPModel struct {
	BaseModel
	Title      string     `gorm:"type:varchar(200);not null"`
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	LeadID     *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (RFPModel) TableName() string {
	return "rfps"
}

// ToDomain converts the persistence model to a domain RFP.
func (m *RFPModel) ToDomain() *crm.RFP {
	return &crm.RFP{
		BaseEntity: m.BaseModel.ToDomain(),
		Title:      m.Title,
		CustomerID: m.CustomerID,
		LeadID:     m.LeadID,
	}
}

// SiteSurveyModel is the persistence model for a site survey.
type SiteSurveyModel struct {
	BaseModel
	Title      string     `gorm:"type:varchar(200);not null"`
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	LeadID     *uuid.UUID `gorm:"type:uuid"`
	RFPID      *uuid.UUID `gorm:"column:rfp_id;type:uuid"`
}

// TableName returns the table name for GORM
func (SiteSurveyModel) TableName() string {
	return "site_surveys"
}

// ToDomain converts the persistence model to a domain SiteSurvey.
func (m *SiteSurveyModel) ToDomain() *crm.SiteSurvey {
	return &crm.SiteSurvey{
		BaseEntity: m.BaseModel.ToDomain(),
		Title:      m.Title,
		CustomerID: m.CustomerID,
		LeadID:     m.LeadID,
		RFPID:      m.RFPID,
	}
}
