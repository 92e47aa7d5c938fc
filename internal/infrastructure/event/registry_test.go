package event

import (
	"testing"

	"github.com/erp/proposals/internal/domain/proposal"
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_Register(t *testing.T) {
	t.Run("specific types", func(t *testing.T) {
		registry := NewHandlerRegistry()
		handler := newRecordingHandler()
		registry.Register(handler, proposal.EventTypeProposalStatusChanged, proposal.EventTypeLeadConverted)

		assert.Equal(t, []shared.EventHandler{handler}, registry.GetHandlers(proposal.EventTypeProposalStatusChanged))
		assert.Equal(t, []shared.EventHandler{handler}, registry.GetHandlers(proposal.EventTypeLeadConverted))
		assert.Empty(t, registry.GetHandlers(proposal.EventTypeProposalSyncedToERP))
	})

	t.Run("wildcard follows specific handlers", func(t *testing.T) {
		registry := NewHandlerRegistry()
		specific := newRecordingHandler()
		wildcard := newRecordingHandler()
		registry.Register(wildcard)
		registry.Register(specific, proposal.EventTypeLeadConverted)

		assert.Equal(t, []shared.EventHandler{specific, wildcard}, registry.GetHandlers(proposal.EventTypeLeadConverted))
		assert.Equal(t, []shared.EventHandler{wildcard}, registry.GetHandlers("Unknown"))
	})
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	first := newRecordingHandler()
	second := newRecordingHandler()
	wildcard := newRecordingHandler()
	registry.Register(first, proposal.EventTypeProposalStatusChanged)
	registry.Register(second, proposal.EventTypeProposalStatusChanged)
	registry.Register(wildcard)

	registry.Unregister(first)
	registry.Unregister(wildcard)

	assert.Equal(t, []shared.EventHandler{second}, registry.GetHandlers(proposal.EventTypeProposalStatusChanged))

	registry.Unregister(second)
	assert.Empty(t, registry.GetHandlers(proposal.EventTypeProposalStatusChanged))
	assert.Empty(t, registry.GetAllHandlers())
}

func TestHandlerRegistry_GetAllHandlers(t *testing.T) {
	registry := NewHandlerRegistry()
	multi := newRecordingHandler()
	other := newRecordingHandler()
	wildcard := newRecordingHandler()
	registry.Register(multi, proposal.EventTypeProposalStatusChanged, proposal.EventTypeLeadConverted)
	registry.Register(other, proposal.EventTypeProposalSyncedToERP)
	registry.Register(wildcard)

	assert.Len(t, registry.GetAllHandlers(), 3)
}
