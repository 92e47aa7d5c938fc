package proposal

import (
	"context"
	"errors"
	"time"

	"github.com/erp/proposals/internal/domain/crm"
	"github.com/erp/proposals/internal/domain/pricing"
	"github.com/erp/proposals/internal/domain/proposal"
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GenerationServiceConfig holds the collaborators of a GenerationService
type GenerationServiceConfig struct {
	Customers   crm.CustomerRepository
	Sources     crm.SourceDocumentRepository
	ProductRepo pricing.ProductRepository
	RuleRepo    pricing.MarkupRuleRepository
	TxScope     TransactionScope
	Locker      shared.Locker
	Events      shared.EventPublisher
	Metrics     Metrics
	Logger      *zap.Logger
	Clock       func() time.Time
}

// GenerationService creates or refreshes the single proposal of a source document
type GenerationService struct {
	customers   crm.CustomerRepository
	sources     crm.SourceDocumentRepository
	productRepo pricing.ProductRepository
	ruleRepo    pricing.MarkupRuleRepository
	txScope     TransactionScope
	locker      shared.Locker
	events      shared.EventPublisher
	metrics     Metrics
	logger      *zap.Logger
	now         func() time.Time
}

// NewGenerationService creates a new GenerationService
func NewGenerationService(cfg GenerationServiceConfig) *GenerationService {
	s := &GenerationService{
		customers:   cfg.Customers,
		sources:     cfg.Sources,
		productRepo: cfg.ProductRepo,
		ruleRepo:    cfg.RuleRepo,
		txScope:     cfg.TxScope,
		locker:      cfg.Locker,
		events:      cfg.Events,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
		now:         cfg.Clock,
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

// Generate upserts the proposal of the request's source document. Calling it
// twice for the same source updates one proposal and keeps a revision note.
func (s *GenerationService) Generate(ctx context.Context, req GenerateProposalRequest, actor shared.Actor) (*GenerateResult, error) {
	key := req.SourceKey()
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.customers.FindByID(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	if req.ContactID != nil {
		contact, err := s.customers.FindContactByID(ctx, *req.ContactID)
		if err != nil {
			return nil, err
		}
		if contact.CustomerID != req.CustomerID {
			return nil, shared.NewValidationError("contact does not belong to the customer")
		}
	}

	key, leadID, err := s.resolveSource(ctx, key, req)
	if err != nil {
		return nil, err
	}
	equipment, err := s.priceEquipment(ctx, req.Equipment)
	if err != nil {
		return nil, err
	}

	details := proposal.Details{
		ContactID:            req.ContactID,
		LeadID:               leadID,
		Title:                req.Title,
		Description:          req.Description,
		Scope:                req.Scope,
		Duration:             req.Duration,
		PlannedStartDate:     req.PlannedStartDate,
		PlannedEndDate:       req.PlannedEndDate,
		GeneratedContent:     req.GeneratedContent,
		TechnicalDescription: req.TechnicalDescription,
		Equipment:            equipment,
		DocumentURL:          req.DocumentURL,
	}

	lockKey := key.LockKey()
	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, lockKey)
		if err != nil {
			s.logger.Warn("proposal source busy", zap.String("lock_key", lockKey), zap.Error(err))
			return nil, err
		}
		defer unlock()
	}

	var (
		p       *proposal.Proposal
		created bool
	)
	now := s.now()
	err = s.txScope.ExecuteForSource(ctx, lockKey, func(repos TransactionalRepositories) error {
		var err error
		p, err = findForSource(ctx, repos.ProposalRepo(), key)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			p, err = proposal.NewProposal(req.CustomerID, key)
			if err != nil {
				return err
			}
			created = true
		case err != nil:
			return err
		case p.CustomerID != req.CustomerID:
			return shared.NewPreconditionError(shared.CodePrecondition,
				"The source document already has a proposal for another customer").
				WithDetail("proposal_id", p.ID.String())
		}

		if err := p.ApplyGeneration(key, details, actor.UserID, now); err != nil {
			return err
		}
		return repos.ProposalRepo().Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	publishEvents(ctx, s.events, s.logger, p)
	s.metrics.RecordGeneration(ctx, !created)
	s.logger.Info("proposal generated",
		zap.String("proposal_id", p.ID.String()),
		zap.Bool("created", created),
		zap.Int("lines", len(p.Equipment)),
		zap.String("lock_key", lockKey),
	)
	return &GenerateResult{Proposal: ToProposalResponse(p), Created: created}, nil
}

// resolveSource checks the source documents against the customer and fills in
// what they imply: the survey's RFP and the originating lead.
func (s *GenerationService) resolveSource(ctx context.Context, key proposal.SourceKey, req GenerateProposalRequest) (proposal.SourceKey, *uuid.UUID, error) {
	leadID := req.LeadID
	if key.SiteSurveyID != nil && *key.SiteSurveyID != uuid.Nil {
		survey, err := s.sources.FindSiteSurvey(ctx, *key.SiteSurveyID)
		if err != nil {
			return key, nil, err
		}
		if survey.CustomerID != req.CustomerID {
			return key, nil, shared.NewValidationError("site survey belongs to another customer")
		}
		if key.RFPID == nil && survey.RFPID != nil {
			key.RFPID = survey.RFPID
		}
		if leadID == nil {
			leadID = survey.LeadID
		}
	}
	if key.RFPID != nil && *key.RFPID != uuid.Nil {
		rfp, err := s.sources.FindRFP(ctx, *key.RFPID)
		if err != nil {
			return key, nil, err
		}
		if rfp.CustomerID != req.CustomerID {
			return key, nil, shared.NewValidationError("RFP belongs to another customer")
		}
		if leadID == nil {
			leadID = rfp.LeadID
		}
	}
	return key, leadID, nil
}

// priceEquipment snapshots the request lines. Lines that reference a product
// take its name, code and kind unless given, and lines without a unit price
// get the product's resolved B2B price.
func (s *GenerationService) priceEquipment(ctx context.Context, lines []EquipmentLineRequest) ([]proposal.EquipmentLine, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if l.ProductID != nil {
			ids = append(ids, *l.ProductID)
		}
	}
	products := make(map[uuid.UUID]pricing.Product, len(ids))
	if len(ids) > 0 {
		found, err := s.productRepo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			products[p.ID] = p
		}
	}

	out := make([]proposal.EquipmentLine, len(lines))
	for i, l := range lines {
		line := proposal.EquipmentLine{
			ProductID:   l.ProductID,
			Name:        l.Name,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			ERPCode:     l.ERPCode,
			IsService:   l.IsService,
		}
		if l.ProductID != nil {
			product, ok := products[*l.ProductID]
			if !ok {
				return nil, shared.NewNotFoundError("product").WithDetail("product_id", l.ProductID.String())
			}
			if line.Name == "" {
				line.Name = product.Name
			}
			if line.ERPCode == "" {
				line.ERPCode = product.ERPCode
			}
			line.IsService = line.IsService || product.IsService
			if line.UnitPrice == nil {
				rules, err := s.ruleRepo.FindApplicable(ctx, product)
				if err != nil {
					return nil, err
				}
				price := pricing.ResolvePrice(product, rules).B2BPrice
				line.UnitPrice = &price
			}
		}
		if line.Quantity.IsZero() {
			line.Quantity = decimal.NewFromInt(1)
		}
		out[i] = line
	}
	return out, nil
}

// findForSource looks a proposal up by source. A proposal found through the
// RFP that already belongs to a different site survey is not this source's.
func findForSource(ctx context.Context, repo proposal.Repository, key proposal.SourceKey) (*proposal.Proposal, error) {
	p, err := proposal.FindBySource(ctx, repo, key)
	if err != nil {
		return nil, err
	}
	if key.SiteSurveyID != nil && p.SiteSurveyID != nil && *p.SiteSurveyID != *key.SiteSurveyID {
		return nil, shared.ErrNotFound
	}
	return p, nil
}
