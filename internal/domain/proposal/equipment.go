package proposal

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EquipmentLine is one priced line of a proposal's equipment snapshot
type EquipmentLine struct {
	ProductID   *uuid.UUID       `json:"product_id,omitempty"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	ERPCode     string           `json:"erp_code,omitempty"`
	IsService   bool             `json:"is_service"`
}

// LineTotal returns quantity times unit price, zero when unpriced
func (l EquipmentLine) LineTotal() decimal.Decimal {
	if l.UnitPrice == nil {
		return decimal.Zero
	}
	return l.Quantity.Mul(*l.UnitPrice)
}

// EquipmentTotal sums the line totals
func EquipmentTotal(lines []EquipmentLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.LineTotal())
	}
	return total
}
