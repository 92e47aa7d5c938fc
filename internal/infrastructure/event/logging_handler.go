package event

import (
	"context"

	"github.com/erp/proposals/internal/domain/proposal"
	"github.com/erp/proposals/internal/domain/shared"
	"go.uber.org/zap"
)

// LoggingHandler writes every proposal domain event to the log
type LoggingHandler struct {
	logger *zap.Logger
}

// NewLoggingHandler creates a LoggingHandler
func NewLoggingHandler(logger *zap.Logger) *LoggingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingHandler{logger: logger.Named("domain_events")}
}

// EventTypes returns nil: the handler receives every event
func (h *LoggingHandler) EventTypes() []string {
	return nil
}

// Handle logs the event with the fields specific to its type
func (h *LoggingHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", e.EventType()),
		zap.String("event_id", e.EventID().String()),
		zap.String("aggregate_type", e.AggregateType()),
		zap.String("aggregate_id", e.AggregateID().String()),
		zap.Time("occurred_at", e.OccurredAt()),
	}

	switch ev := e.(type) {
	case *proposal.ProposalStatusChangedEvent:
		fields = append(fields,
			zap.String("from", ev.FromStatus.String()),
			zap.String("to", ev.ToStatus.String()),
			zap.String("changed_by", ev.ChangedBy.String()),
		)
	case *proposal.LeadConvertedEvent:
		fields = append(fields,
			zap.String("lead_id", ev.LeadID.String()),
			zap.String("project_id", ev.ProjectID.String()),
		)
	case *proposal.ProposalSyncedToERPEvent:
		fields = append(fields,
			zap.String("quote_number", ev.QuoteNumber),
			zap.String("findoc", ev.FinDoc),
		)
	case *proposal.ProposalGeneratedEvent:
		fields = append(fields, zap.Bool("regenerated", ev.Regenerated))
	}

	h.logger.Info("domain event", fields...)
	return nil
}

var _ shared.EventHandler = (*LoggingHandler)(nil)
