package event

import (
	"context"
	"testing"

	"github.com/erp/proposals/internal/domain/proposal"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingHandler_Handle(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := NewLoggingHandler(zap.New(core))
	assert.Nil(t, handler.EventTypes())

	survey := uuid.New()
	p, err := proposal.NewProposal(uuid.New(), proposal.SourceKey{SiteSurveyID: &survey})
	require.NoError(t, err)
	leadID, projectID := uuid.New(), uuid.New()

	require.NoError(t, handler.Handle(context.Background(), proposal.NewProposalStatusChangedEvent(p, proposal.StatusSent, proposal.StatusWon, uuid.New())))
	require.NoError(t, handler.Handle(context.Background(), proposal.NewLeadConvertedEvent(p, leadID, projectID)))

	entries := logs.All()
	require.Len(t, entries, 2)

	status := entries[0].ContextMap()
	assert.Equal(t, proposal.EventTypeProposalStatusChanged, status["event_type"])
	assert.Equal(t, p.ID.String(), status["aggregate_id"])
	assert.Equal(t, "SENT", status["from"])
	assert.Equal(t, "WON", status["to"])

	converted := entries[1].ContextMap()
	assert.Equal(t, leadID.String(), converted["lead_id"])
	assert.Equal(t, projectID.String(), converted["project_id"])
	assert.Equal(t, "domain_events", entries[1].LoggerName)
}

func TestLoggingHandler_ThroughBus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewLoggingHandler(zap.New(core)))

	require.NoError(t, bus.Publish(context.Background(), statusChanged(t, proposal.StatusDraft, proposal.StatusInReview)))
	assert.Equal(t, 1, logs.FilterMessage("domain event").Len())
}
