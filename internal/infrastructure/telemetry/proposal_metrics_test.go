package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProposalMetrics_NilMeter(t *testing.T) {
	_, err := NewProposalMetrics(nil, nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestProposalMetrics_Record(t *testing.T) {
	provider, reader := newManualMeter(t)
	m, err := NewProposalMetrics(provider.Meter("test"), nil)
	require.NoError(t, err)
	ctx := context.Background()

	m.RecordStatusTransition(ctx, "SENT", "WON")
	m.RecordStatusTransition(ctx, "SENT", "WON")
	m.RecordStatusTransition(ctx, "DRAFT", "SENT")
	m.RecordLeadConversion(ctx)
	m.RecordERPSync(ctx, "success")
	m.RecordERPSync(ctx, "invalid_lines")
	m.RecordGeneration(ctx, false)
	m.RecordGeneration(ctx, true)
	m.RecordGeneration(ctx, true)
	m.RecordPriceResolution(ctx, "BRAND", false)
	m.RecordPriceResolution(ctx, "", true)

	rm := collect(t, reader)
	assert.Equal(t, int64(2), counterValue(t, rm, "proposal_status_transitions_total",
		AttrFromStatus.String("SENT"), AttrToStatus.String("WON")))
	assert.Equal(t, int64(3), counterValue(t, rm, "proposal_status_transitions_total"))
	assert.Equal(t, int64(1), counterValue(t, rm, "proposal_lead_conversions_total"))
	assert.Equal(t, int64(1), counterValue(t, rm, "proposal_erp_sync_total", AttrOutcome.String("invalid_lines")))
	assert.Equal(t, int64(2), counterValue(t, rm, "proposal_generated_total", AttrRegenerated.Bool(true)))
	assert.Equal(t, int64(1), counterValue(t, rm, "pricing_resolutions_total", AttrScope.String("none"), AttrOverridden.Bool(true)))
	assert.Equal(t, int64(1), counterValue(t, rm, "pricing_resolutions_total", AttrScope.String("BRAND")))
}
