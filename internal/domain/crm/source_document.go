package crm

import (
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/google/uuid"
)

// RFP is a request for proposal received from a customer
type RFP struct {
	shared.BaseEntity
	Title      string
	CustomerID uuid.UUID
	LeadID     *uuid.UUID
}

// SiteSurvey is an on-site assessment that may originate a proposal
type SiteSurvey struct {
	shared.BaseEntity
	Title      string
	CustomerID uuid.UUID
	LeadID     *uuid.UUID
	RFPID      *uuid.UUID
}
