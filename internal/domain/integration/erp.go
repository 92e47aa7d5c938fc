package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/proposals/internal/domain/proposal"
	"github.com/shopspring/decimal"
)

// Transport-level ERP errors
var (
	ErrERPNotConfigured   = errors.New("integration: erp not configured")
	ErrERPUnavailable     = errors.New("integration: erp temporarily unavailable")
	ErrERPRequestFailed   = errors.New("integration: erp request failed")
	ErrERPInvalidResponse = errors.New("integration: invalid erp response")
)

// ERPBusinessError is returned when the ERP answers with success=false.
// It is recoverable: the caller decides whether to retry the whole send.
type ERPBusinessError struct {
	Message string
	Code    string
}

// Error implements the error interface
func (e *ERPBusinessError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("integration: erp rejected document: %s", e.Message)
	}
	return fmt.Sprintf("integration: erp rejected document: %s (code %s)", e.Message, e.Code)
}

// DocumentRequest is a sales document to create in the ERP
type DocumentRequest struct {
	Series   string
	Trdr     string
	Comments string
	Lines    []proposal.ERPLine
}

// Validate checks the request before anything leaves the process
func (r DocumentRequest) Validate() error {
	if r.Trdr == "" {
		return fmt.Errorf("%w: missing trading partner", ErrERPRequestFailed)
	}
	if len(r.Lines) == 0 {
		return fmt.Errorf("%w: no lines", ErrERPRequestFailed)
	}
	if v := proposal.ValidateERPLines(r.Lines); !v.Valid {
		return fmt.Errorf("%w: lines missing product code", ErrERPRequestFailed)
	}
	return nil
}

// DocumentResult holds the identifiers the ERP assigned to a document
type DocumentResult struct {
	QuoteNumber string
	FinDoc      string
	Series      string
	SeriesNum   string
	Turnover    decimal.Decimal
	VATAmount   decimal.Decimal
	RawResponse string
}

// ToProposalDocument converts the result into the proposal's ERP fields
func (r DocumentResult) ToProposalDocument() proposal.ERPDocument {
	return proposal.ERPDocument{
		QuoteNumber: r.QuoteNumber,
		Series:      r.Series,
		SeriesNum:   r.SeriesNum,
		FinDoc:      r.FinDoc,
		Turnover:    r.Turnover,
		VATAmount:   r.VATAmount,
		RawResponse: r.RawResponse,
	}
}

// ERPClient creates sales documents in the ERP.
// Implementations make exactly one outbound call per invocation and never retry.
type ERPClient interface {
	CreateSalesDocument(ctx context.Context, req DocumentRequest) (*DocumentResult, error)
}
