package erp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/erp/proposals/internal/domain/proposal"
	"github.com/shopspring/decimal"
)

// documentRequest is the JSON payload posted to the ERP
type documentRequest struct {
	Service  string        `json:"service"`
	Username string        `json:"username"`
	Password string        `json:"password"`
	AppID    string        `json:"appId,omitempty"`
	Company  string        `json:"company,omitempty"`
	Branch   string        `json:"branch,omitempty"`
	Series   string        `json:"series"`
	Trdr     string        `json:"trdr"`
	Comments string        `json:"comments,omitempty"`
	Lines    []documentRow `json:"lines"`
}

// documentRow is one ERP line in the wire format
type documentRow struct {
	MTRL    string      `json:"mtrl"`
	Qty1    json.Number `json:"qty1"`
	Price   json.Number `json:"price"`
	VAT     string      `json:"vat"`
	SODType string      `json:"sodtype"`
}

func newDocumentRows(lines []proposal.ERPLine) []documentRow {
	rows := make([]documentRow, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, documentRow{
			MTRL:    l.MTRL,
			Qty1:    json.Number(l.Quantity.String()),
			Price:   json.Number(l.Price.String()),
			VAT:     l.VATCode,
			SODType: l.TypeCode,
		})
	}
	return rows
}

// documentResponse is the decoded ERP answer
type documentResponse struct {
	Success   bool       `json:"success"`
	Code      flexString `json:"code"`
	FinDoc    flexString `json:"findoc"`
	Series    flexString `json:"series"`
	SeriesNum flexString `json:"seriesnum"`
	Turnover  flexString `json:"turnover"`
	VATAmount flexString `json:"vatamnt"`
	Error     string     `json:"error"`
	ErrorCode flexString `json:"errorcode"`
}

// flexString accepts a JSON string or number; the ERP is not consistent
// about how it encodes identifiers and amounts.
type flexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	*f = flexString(data)
	return nil
}

// amount parses a money value. Greek formatting ("1.234,56") is accepted: when a
// decimal comma is present, dots are thousands separators.
func (f flexString) amount() (decimal.Decimal, error) {
	s := strings.ReplaceAll(string(f), " ", "")
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", string(f))
	}
	return d, nil
}
