package proposal

import (
	"context"
	"errors"
	"time"

	"github.com/erp/proposals/internal/domain/crm"
	"github.com/erp/proposals/internal/domain/integration"
	"github.com/erp/proposals/internal/domain/proposal"
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ERPSyncServiceConfig holds the collaborators of an ERPSyncService
type ERPSyncServiceConfig struct {
	ProposalRepo  proposal.Repository
	Customers     crm.CustomerRepository
	Client        integration.ERPClient
	TxScope       TransactionScope
	Locker        shared.Locker
	LineDefaults  proposal.LineDefaults
	DefaultSeries string
	Events        shared.EventPublisher
	Metrics       Metrics
	Logger        *zap.Logger
	Clock         func() time.Time
}

// ERPSyncService sends proposals to the ERP as sales documents
type ERPSyncService struct {
	proposalRepo  proposal.Repository
	customers     crm.CustomerRepository
	client        integration.ERPClient
	txScope       TransactionScope
	locker        shared.Locker
	defaults      proposal.LineDefaults
	defaultSeries string
	events        shared.EventPublisher
	metrics       Metrics
	logger        *zap.Logger
	now           func() time.Time
}

// NewERPSyncService creates a new ERPSyncService
func NewERPSyncService(cfg ERPSyncServiceConfig) *ERPSyncService {
	s := &ERPSyncService{
		proposalRepo:  cfg.ProposalRepo,
		customers:     cfg.Customers,
		client:        cfg.Client,
		txScope:       cfg.TxScope,
		locker:        cfg.Locker,
		defaults:      cfg.LineDefaults,
		defaultSeries: cfg.DefaultSeries,
		events:        cfg.Events,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
		now:           cfg.Clock,
	}
	if s.defaults == (proposal.LineDefaults{}) {
		s.defaults = proposal.DefaultLineDefaults()
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// ValidateLines maps the proposal's equipment to ERP lines without sending
// anything and reports the lines that lack a product code.
func (s *ERPSyncService) ValidateLines(ctx context.Context, id uuid.UUID) (*LineValidationResult, error) {
	p, err := s.proposalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lines := proposal.MapERPLines(p.Equipment, s.defaults)
	v := proposal.ValidateERPLines(lines)
	return &LineValidationResult{Valid: v.Valid, MissingCodes: v.MissingCodes, Lines: lines}, nil
}

// SendToERP creates the proposal's sales document in the ERP and stores the
// returned identifiers. Line and customer checks run before any outbound call.
// The ERP is called exactly once; when it fails nothing is written locally.
func (s *ERPSyncService) SendToERP(ctx context.Context, id uuid.UUID, req SendToERPRequest, actor shared.Actor) (*ERPSyncResult, error) {
	current, err := s.proposalRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lines := proposal.MapERPLines(current.Equipment, s.defaults)
	if len(lines) == 0 {
		s.metrics.RecordERPSync(ctx, ERPOutcomeInvalidLines)
		return nil, proposal.ErrNoLines
	}
	if err := proposal.ValidateERPLines(lines).Err(); err != nil {
		s.metrics.RecordERPSync(ctx, ERPOutcomeInvalidLines)
		return nil, err
	}

	customer, err := s.customers.FindByID(ctx, current.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.HasERPTrdr() {
		return nil, shared.NewPreconditionError(shared.CodeCustomerMissingERP,
			"Customer is not linked to an ERP trading partner").
			WithDetail("customer_id", customer.ID.String())
	}

	key := current.Source()
	lockKey := key.LockKey()
	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, lockKey)
		if err != nil {
			s.logger.Warn("proposal source busy", zap.String("lock_key", lockKey), zap.Error(err))
			return nil, err
		}
		defer unlock()
	}

	// Another request may have re-synced the proposal while we waited for the lock.
	if existing, err := findForSource(ctx, s.proposalRepo, key); err == nil && existing.ERP.IsSynced() {
		s.logger.Info("replacing existing ERP document",
			zap.String("proposal_id", existing.ID.String()),
			zap.String("findoc", existing.ERP.FinDoc),
		)
	}

	series := req.Series
	if series == "" {
		series = s.defaultSeries
	}
	result, err := s.client.CreateSalesDocument(ctx, integration.DocumentRequest{
		Series:   series,
		Trdr:     customer.ERPTrdr,
		Comments: req.Comments,
		Lines:    lines,
	})
	if err != nil {
		mapped, outcome := mapERPError(err)
		s.metrics.RecordERPSync(ctx, outcome)
		s.logger.Warn("erp send failed",
			zap.String("proposal_id", id.String()),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
		return nil, mapped
	}

	var p *proposal.Proposal
	now := s.now()
	err = s.txScope.ExecuteForSource(ctx, lockKey, func(repos TransactionalRepositories) error {
		var err error
		p, err = findForSource(ctx, repos.ProposalRepo(), key)
		if errors.Is(err, shared.ErrNotFound) {
			p, err = repos.ProposalRepo().FindByIDForUpdate(ctx, id)
		}
		if err != nil {
			return err
		}
		p.ApplyERPDocument(result.ToProposalDocument(), actor.UserID, now)
		return repos.ProposalRepo().Save(ctx, p)
	})
	if err != nil {
		// The ERP document exists but is not recorded; the findoc is logged
		// so it can be reconciled by hand.
		s.metrics.RecordERPSync(ctx, ERPOutcomePersistFailed)
		s.logger.Error("erp document created but not stored",
			zap.String("proposal_id", id.String()),
			zap.String("findoc", result.FinDoc),
			zap.String("quote_number", result.QuoteNumber),
			zap.Error(err),
		)
		return nil, err
	}

	publishEvents(ctx, s.events, s.logger, p)
	s.metrics.RecordERPSync(ctx, ERPOutcomeSuccess)
	s.logger.Info("proposal synced to erp",
		zap.String("proposal_id", p.ID.String()),
		zap.String("quote_number", p.ERP.QuoteNumber),
		zap.String("findoc", p.ERP.FinDoc),
	)
	return &ERPSyncResult{
		Proposal:       ToProposalResponse(p),
		ProposalNumber: p.ERP.QuoteNumber,
		ERPData:        toERPData(p.ERP),
	}, nil
}

// mapERPError converts client errors to domain errors and a metrics outcome
func mapERPError(err error) (*shared.DomainError, string) {
	var business *integration.ERPBusinessError
	if errors.As(err, &business) {
		de := shared.NewDomainError(shared.CodeERPBusinessError, "ERP rejected the document: "+business.Message)
		if business.Code != "" {
			de = de.WithDetail("errorcode", business.Code)
		}
		return de, ERPOutcomeBusinessError
	}

	msg := "ERP is temporarily unavailable"
	switch {
	case errors.Is(err, integration.ErrERPNotConfigured):
		msg = "ERP integration is not configured"
	case errors.Is(err, integration.ErrERPInvalidResponse):
		msg = "ERP returned an invalid response"
	case errors.Is(err, integration.ErrERPRequestFailed):
		msg = "ERP request failed"
	}
	return shared.NewDomainError(shared.CodeERPUnavailable, msg), ERPOutcomeUnavailable
}
