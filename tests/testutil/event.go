package testutil

import (
	"context"
	"sync"

	"github.com/erp/proposals/internal/domain/shared"
)

// RecordingEventHandler records every event it receives
type RecordingEventHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
}

// NewRecordingEventHandler subscribes to eventTypes, or to all events when none are given
func NewRecordingEventHandler(eventTypes ...string) *RecordingEventHandler {
	return &RecordingEventHandler{eventTypes: eventTypes}
}

// EventTypes implements shared.EventHandler
func (h *RecordingEventHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle implements shared.EventHandler
func (h *RecordingEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return nil
}

// Types returns the types of the recorded events in arrival order
func (h *RecordingEventHandler) Types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	types := make([]string, len(h.handled))
	for i, e := range h.handled {
		types[i] = e.EventType()
	}
	return types
}

// Count returns how many events of eventType were recorded
func (h *RecordingEventHandler) Count(eventType string) int {
	n := 0
	for _, t := range h.Types() {
		if t == eventType {
			n++
		}
	}
	return n
}

// Reset forgets the recorded events
func (h *RecordingEventHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = nil
}
