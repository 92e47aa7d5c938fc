package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/erp/proposals/internal/domain/integration"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name for spans started by this service
const TracerName = "github.com/erp/proposals"

// EndSpan records err on span, if any, and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// TracedERPClient wraps an ERP client with a client span and a latency
// histogram per call.
type TracedERPClient struct {
	next     integration.ERPClient
	tracer   trace.Tracer
	duration *Histogram
}

// NewTracedERPClient decorates next
func NewTracedERPClient(next integration.ERPClient, tp trace.TracerProvider, meter metric.Meter) (*TracedERPClient, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	duration, err := NewHistogram(meter, "erp_request_duration_seconds",
		"Round trip time of ERP sales document requests", "s", ERPDurationBuckets...)
	if err != nil {
		return nil, err
	}
	return &TracedERPClient{
		next:     next,
		tracer:   tp.Tracer(TracerName),
		duration: duration,
	}, nil
}

// CreateSalesDocument implements integration.ERPClient
func (c *TracedERPClient) CreateSalesDocument(ctx context.Context, req integration.DocumentRequest) (*integration.DocumentResult, error) {
	ctx, span := c.tracer.Start(ctx, "erp.create_sales_document",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("erp.series", req.Series),
			attribute.Int("erp.lines", len(req.Lines)),
		),
	)

	start := time.Now()
	result, err := c.next.CreateSalesDocument(ctx, req)
	c.duration.RecordDuration(ctx, time.Since(start), AttrOutcome.String(erpOutcome(err)))

	if result != nil {
		span.SetAttributes(attribute.String("erp.findoc", result.FinDoc))
	}
	EndSpan(span, err)
	return result, err
}

func erpOutcome(err error) string {
	var businessErr *integration.ERPBusinessError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &businessErr):
		return "business_error"
	default:
		return "unavailable"
	}
}

var _ integration.ERPClient = (*TracedERPClient)(nil)
