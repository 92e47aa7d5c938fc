package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when an instrument set is built without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Attribute keys shared by proposal instruments
var (
	AttrFromStatus  = attribute.Key("from_status")
	AttrToStatus    = attribute.Key("to_status")
	AttrOutcome     = attribute.Key("outcome")
	AttrRegenerated = attribute.Key("regenerated")
	AttrScope       = attribute.Key("rule_scope")
	AttrOverridden  = attribute.Key("overridden")
)

// ProposalMetrics records pricing and proposal lifecycle activity. It serves
// as the Metrics collaborator of both the pricing and the proposal services.
type ProposalMetrics struct {
	logger *zap.Logger

	statusTransitions *Counter
	leadConversions   *Counter
	erpSyncs          *Counter
	generations       *Counter
	priceResolutions  *Counter
}

// NewProposalMetrics creates the proposal instruments on meter
func NewProposalMetrics(meter metric.Meter, logger *zap.Logger) (*ProposalMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &ProposalMetrics{logger: logger}
	var err error
	if m.statusTransitions, err = NewCounter(meter,
		"proposal_status_transitions_total", "Proposal status changes", "{transitions}"); err != nil {
		return nil, err
	}
	if m.leadConversions, err = NewCounter(meter,
		"proposal_lead_conversions_total", "Leads converted into projects by a won proposal", "{conversions}"); err != nil {
		return nil, err
	}
	if m.erpSyncs, err = NewCounter(meter,
		"proposal_erp_sync_total", "Attempts to create an ERP sales document", "{attempts}"); err != nil {
		return nil, err
	}
	if m.generations, err = NewCounter(meter,
		"proposal_generated_total", "Proposals generated or regenerated from a source", "{proposals}"); err != nil {
		return nil, err
	}
	if m.priceResolutions, err = NewCounter(meter,
		"pricing_resolutions_total", "Product prices resolved against markup rules", "{resolutions}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordStatusTransition counts a status change
func (m *ProposalMetrics) RecordStatusTransition(ctx context.Context, from, to string) {
	m.statusTransitions.Inc(ctx, AttrFromStatus.String(from), AttrToStatus.String(to))
}

// RecordLeadConversion counts a lead closed as won
func (m *ProposalMetrics) RecordLeadConversion(ctx context.Context) {
	m.leadConversions.Inc(ctx)
}

// RecordERPSync counts an ERP send by outcome
func (m *ProposalMetrics) RecordERPSync(ctx context.Context, outcome string) {
	m.erpSyncs.Inc(ctx, AttrOutcome.String(outcome))
}

// RecordGeneration counts a generated proposal
func (m *ProposalMetrics) RecordGeneration(ctx context.Context, regenerated bool) {
	m.generations.Inc(ctx, AttrRegenerated.Bool(regenerated))
}

// RecordPriceResolution counts a resolved price by the scope of the winning rule
func (m *ProposalMetrics) RecordPriceResolution(ctx context.Context, scope string, overridden bool) {
	if scope == "" {
		scope = "none"
	}
	m.priceResolutions.Inc(ctx, AttrScope.String(scope), AttrOverridden.Bool(overridden))
}
