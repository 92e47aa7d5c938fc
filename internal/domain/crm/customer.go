package crm

import (
	"strings"

	"github.com/erp/proposals/internal/domain/shared"
	"github.com/google/uuid"
)

// Customer is the slice of a customer record this service reads
type Customer struct {
	shared.BaseEntity
	Name    string
	Email   string
	ERPTrdr string // external trading-partner identifier
}

// HasERPTrdr reports whether the customer is linked to an ERP trading partner
func (c *Customer) HasERPTrdr() bool {
	return strings.TrimSpace(c.ERPTrdr) != ""
}

// Contact is a person at a customer
type Contact struct {
	shared.BaseEntity
	CustomerID uuid.UUID
	Name       string
	Email      string
}
