package proposal

import (
	"context"

	"github.com/erp/proposals/internal/domain/shared"
	"go.uber.org/zap"
)

// ERP sync outcomes reported to Metrics
const (
	ERPOutcomeSuccess       = "success"
	ERPOutcomeInvalidLines  = "invalid_lines"
	ERPOutcomeBusinessError = "business_error"
	ERPOutcomeUnavailable   = "unavailable"
	ERPOutcomePersistFailed = "persist_failed"
)

// Metrics records proposal lifecycle activity
type Metrics interface {
	RecordStatusTransition(ctx context.Context, from, to string)
	RecordLeadConversion(ctx context.Context)
	RecordERPSync(ctx context.Context, outcome string)
	RecordGeneration(ctx context.Context, regenerated bool)
}

type noopMetrics struct{}

func (noopMetrics) RecordStatusTransition(context.Context, string, string) {}
func (noopMetrics) RecordLeadConversion(context.Context)                   {}
func (noopMetrics) RecordERPSync(context.Context, string)                  {}
func (noopMetrics) RecordGeneration(context.Context, bool)                 {}

// publishEvents hands the aggregate's pending events to the publisher once the
// transaction that produced them has committed.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, agg shared.AggregateRoot) {
	events := agg.GetDomainEvents()
	agg.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if publisher == nil {
		for _, e := range events {
			logger.Debug("domain event",
				zap.String("event_type", e.EventType()),
				zap.String("aggregate_id", e.AggregateID().String()),
			)
		}
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.Warn("failed to publish domain events",
			zap.String("aggregate_id", agg.GetID().String()),
			zap.Int("count", len(events)),
			zap.Error(err),
		)
	}
}
