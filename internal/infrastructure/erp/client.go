package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/erp/proposals/internal/domain/integration"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/erp/proposals/internal/infrastructure/erp"

// Client creates sales documents through the ERP web service.
// Each call performs exactly one HTTP request; retries are left to the caller.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
	tracer     trace.Tracer
}

// Ensure Client implements integration.ERPClient
var _ integration.ERPClient = (*Client)(nil)

// NewClient creates a new ERP client
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if config == nil {
		return nil, integration.ErrERPNotConfigured
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger.Named("erp"),
		tracer: otel.Tracer(tracerName),
	}, nil
}

// WithHTTPClient replaces the underlying HTTP client
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// CreateSalesDocument posts one sales document to the ERP
func (c *Client) CreateSalesDocument(ctx context.Context, req integration.DocumentRequest) (*integration.DocumentResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	series := req.Series
	if series == "" {
		series = c.config.Series
	}

	ctx, span := c.tracer.Start(ctx, "erp.CreateSalesDocument",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("erp.series", series),
			attribute.String("erp.trdr", req.Trdr),
			attribute.Int("erp.lines", len(req.Lines)),
		),
	)
	defer span.End()

	payload := documentRequest{
		Service:  c.config.Service,
		Username: c.config.Username,
		Password: c.config.Password,
		AppID:    c.config.AppID,
		Company:  c.config.Company,
		Branch:   c.config.Branch,
		Series:   series,
		Trdr:     req.Trdr,
		Comments: req.Comments,
		Lines:    newDocumentRows(req.Lines),
	}

	start := time.Now()
	raw, err := c.doRequest(ctx, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("ERP request failed",
			zap.String("series", series),
			zap.String("trdr", req.Trdr),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	result, err := c.parseResponse(raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("ERP rejected sales document",
			zap.String("series", series),
			zap.String("trdr", req.Trdr),
			zap.Error(err),
		)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("erp.quote_number", result.QuoteNumber),
		attribute.String("erp.findoc", result.FinDoc),
	)
	c.logger.Info("ERP sales document created",
		zap.String("quote_number", result.QuoteNumber),
		zap.String("findoc", result.FinDoc),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// doRequest performs the HTTP call and returns the raw body
func (c *Client) doRequest(ctx context.Context, payload documentRequest) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("erp: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("erp: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrERPUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", integration.ErrERPUnavailable, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrERPUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: HTTP %d", integration.ErrERPRequestFailed, resp.StatusCode)
	}
	return raw, nil
}

// parseResponse decodes the legacy-encoded body and maps it to a result
func (c *Client) parseResponse(raw []byte) (*integration.DocumentResult, error) {
	decoded, err := DecodeResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrERPInvalidResponse, err)
	}

	var resp documentResponse
	if err := json.Unmarshal(decoded, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrERPInvalidResponse, err)
	}

	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "unknown ERP error"
		}
		return nil, &integration.ERPBusinessError{
			Message: msg,
			Code:    string(resp.ErrorCode),
		}
	}

	if resp.Code == "" && resp.FinDoc == "" {
		return nil, fmt.Errorf("%w: success without document identifiers", integration.ErrERPInvalidResponse)
	}
	turnover, err := resp.Turnover.amount()
	if err != nil {
		return nil, fmt.Errorf("%w: turnover: %v", integration.ErrERPInvalidResponse, err)
	}
	vat, err := resp.VATAmount.amount()
	if err != nil {
		return nil, fmt.Errorf("%w: vatamnt: %v", integration.ErrERPInvalidResponse, err)
	}

	return &integration.DocumentResult{
		QuoteNumber: string(resp.Code),
		FinDoc:      string(resp.FinDoc),
		Series:      string(resp.Series),
		SeriesNum:   string(resp.SeriesNum),
		Turnover:    turnover,
		VATAmount:   vat,
		RawResponse: string(decoded),
	}, nil
}
