package crm

import (
	"testing"
	"time"

	"github.com/erp/proposals/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLead_CloseAsWon(t *testing.T) {
	now := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
	actor := uuid.New()
	lead := &Lead{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             "Rooftop PV for warehouse",
		Status:            LeadStatusProposal,
		Stage:             "NEGOTIATION",
	}

	change, err := lead.CloseAsWon(actor, "proposal won", now)
	require.NoError(t, err)

	assert.Equal(t, LeadStatusClosed, lead.Status)
	assert.Equal(t, StageClosedWon, lead.Stage)
	require.NotNil(t, lead.ConvertedAt)
	assert.Equal(t, now, *lead.ConvertedAt)
	assert.Equal(t, 2, lead.Version)

	assert.Equal(t, lead.ID, change.LeadID)
	assert.Equal(t, LeadStatusProposal, change.FromStatus)
	assert.Equal(t, LeadStatusClosed, change.ToStatus)
	assert.Equal(t, "NEGOTIATION", change.FromStage)
	assert.Equal(t, StageClosedWon, change.ToStage)
	assert.Equal(t, actor, change.ChangedBy)

	_, err = lead.CloseAsWon(actor, "again", now)
	assert.Error(t, err)
}
