package proposal

import (
	"fmt"
	"strings"

	"github.com/erp/proposals/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Default ERP line codes
const (
	DefaultVATCode         = "1410"
	DefaultProductTypeCode = "51"
	DefaultServiceTypeCode = "52"
)

// LineDefaults are the fixed codes stamped on every ERP line
type LineDefaults struct {
	VATCode         string
	ProductTypeCode string
	ServiceTypeCode string
}

// DefaultLineDefaults returns the standard ERP line codes
func DefaultLineDefaults() LineDefaults {
	return LineDefaults{
		VATCode:         DefaultVATCode,
		ProductTypeCode: DefaultProductTypeCode,
		ServiceTypeCode: DefaultServiceTypeCode,
	}
}

// ERPLine is an equipment line in the ERP's line schema
type ERPLine struct {
	MTRL        string          `json:"mtrl"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	VATCode     string          `json:"vat"`
	TypeCode    string          `json:"type"`
	DisplayName string          `json:"name"`
	Missing     bool            `json:"missing_code"`
}

// MapERPLines maps equipment to ERP lines. Lines without an external code are
// kept and flagged so that validation can name them.
func MapERPLines(equipment []EquipmentLine, defaults LineDefaults) []ERPLine {
	lines := make([]ERPLine, 0, len(equipment))
	for i, e := range equipment {
		typeCode := defaults.ProductTypeCode
		if e.IsService {
			typeCode = defaults.ServiceTypeCode
		}
		price := decimal.Zero
		if e.UnitPrice != nil {
			price = *e.UnitPrice
		}
		name := strings.TrimSpace(e.Name)
		if name == "" {
			name = fmt.Sprintf("Line %d", i+1)
		}
		code := strings.TrimSpace(e.ERPCode)
		lines = append(lines, ERPLine{
			MTRL:        code,
			Quantity:    e.Quantity,
			Price:       price,
			VATCode:     defaults.VATCode,
			TypeCode:    typeCode,
			DisplayName: name,
			Missing:     code == "",
		})
	}
	return lines
}

// LineValidation is the outcome of ValidateERPLines
type LineValidation struct {
	Valid        bool     `json:"valid"`
	MissingCodes []string `json:"missingCodes"`
}

// ErrMissingERPCodes is returned when lines lack an external product code
var ErrMissingERPCodes = shared.NewDomainError(shared.CodeMissingERPCodes, "Some lines are missing an ERP product code")

// ErrNoLines is returned when there is nothing to send
var ErrNoLines = shared.NewDomainError(shared.CodeNoLines, "The proposal has no equipment lines to send")

// ValidateERPLines reports every line without an external code, by display name
func ValidateERPLines(lines []ERPLine) LineValidation {
	missing := make([]string, 0)
	for _, l := range lines {
		if l.Missing || strings.TrimSpace(l.MTRL) == "" {
			missing = append(missing, l.DisplayName)
		}
	}
	return LineValidation{Valid: len(missing) == 0, MissingCodes: missing}
}

// Err returns nil for a valid result, otherwise an error that names the lines
func (v LineValidation) Err() error {
	if v.Valid {
		return nil
	}
	err := ErrMissingERPCodes.WithDetail("missingCodes", v.MissingCodes)
	err.Message = "Missing ERP product code for: " + strings.Join(v.MissingCodes, ", ")
	return err
}
