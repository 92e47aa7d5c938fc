package pricing

import (
	"context"
	"time"

	"github.com/erp/proposals/internal/domain/pricing"
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultElevatedRoles may manage markup rules when no roles are configured
var DefaultElevatedRoles = []string{"admin", "pricing_manager"}

// Metrics records pricing activity
type Metrics interface {
	RecordPriceResolution(ctx context.Context, scope string, overridden bool)
}

type noopMetrics struct{}

func (noopMetrics) RecordPriceResolution(context.Context, string, bool) {}

// ServiceConfig holds the collaborators of a Service
type ServiceConfig struct {
	RuleRepo      pricing.MarkupRuleRepository
	ProductRepo   pricing.ProductRepository
	HistoryRepo   pricing.PricingHistoryRepository
	Targets       pricing.TargetResolver
	TxScope       TransactionScope
	ElevatedRoles []string
	Metrics       Metrics
	Logger        *zap.Logger
	Clock         func() time.Time
}

// Service manages markup rules, resolves prices and records pricing changes
type Service struct {
	ruleRepo      pricing.MarkupRuleRepository
	productRepo   pricing.ProductRepository
	historyRepo   pricing.PricingHistoryRepository
	targets       pricing.TargetResolver
	txScope       TransactionScope
	elevatedRoles []string
	metrics       Metrics
	logger        *zap.Logger
	now           func() time.Time
}

// NewService creates a new pricing Service
func NewService(cfg ServiceConfig) *Service {
	s := &Service{
		ruleRepo:      cfg.RuleRepo,
		productRepo:   cfg.ProductRepo,
		historyRepo:   cfg.HistoryRepo,
		targets:       cfg.Targets,
		txScope:       cfg.TxScope,
		elevatedRoles: cfg.ElevatedRoles,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
		now:           cfg.Clock,
	}
	if len(s.elevatedRoles) == 0 {
		s.elevatedRoles = DefaultElevatedRoles
	}
	if s.txScope == nil {
		s.txScope = NewNoOpTransactionScope(cfg.ProductRepo, cfg.HistoryRepo)
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

// ListRules lists markup rules, highest priority first
func (s *Service) ListRules(ctx context.Context, filter RuleListFilter) ([]MarkupRuleResponse, error) {
	domainFilter := pricing.RuleFilter{ActiveOnly: filter.ActiveOnly}
	if filter.Scope != "" {
		scope, err := pricing.ParseRuleScope(filter.Scope)
		if err != nil {
			return nil, err
		}
		domainFilter.Scope = &scope
	}

	rules, err := s.ruleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	out := make([]MarkupRuleResponse, len(rules))
	for i := range rules {
		out[i] = ToMarkupRuleResponse(&rules[i])
	}
	return out, nil
}

// GetRule returns a markup rule by ID
func (s *Service) GetRule(ctx context.Context, id uuid.UUID) (*MarkupRuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToMarkupRuleResponse(rule)
	return &resp, nil
}

// CreateRule creates a markup rule. Only elevated roles may manage rules.
func (s *Service) CreateRule(ctx context.Context, req MarkupRuleRequest, actor shared.Actor) (*MarkupRuleResponse, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	input, err := req.toInput()
	if err != nil {
		return nil, err
	}
	if err := s.checkTarget(ctx, input); err != nil {
		return nil, err
	}

	createdBy := actor.UserID
	rule, err := pricing.NewMarkupRule(input, &createdBy)
	if err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}

	s.logger.Info("markup rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("scope", rule.Scope.String()),
		zap.Int("priority", rule.Priority),
		zap.String("actor", actor.UserID.String()),
	)
	resp := ToMarkupRuleResponse(rule)
	return &resp, nil
}

// UpdateRule replaces a markup rule's attributes
func (s *Service) UpdateRule(ctx context.Context, id uuid.UUID, req MarkupRuleRequest, actor shared.Actor) (*MarkupRuleResponse, error) {
	if err := s.authorize(actor); err != nil {
		return nil, err
	}
	input, err := req.toInput()
	if err != nil {
		return nil, err
	}

	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkTarget(ctx, input); err != nil {
		return nil, err
	}
	if err := rule.Update(input); err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}

	s.logger.Info("markup rule updated",
		zap.String("rule_id", rule.ID.String()),
		zap.Int("version", rule.Version),
		zap.String("actor", actor.UserID.String()),
	)
	resp := ToMarkupRuleResponse(rule)
	return &resp, nil
}

// DeleteRule removes a markup rule
func (s *Service) DeleteRule(ctx context.Context, id uuid.UUID, actor shared.Actor) error {
	if err := s.authorize(actor); err != nil {
		return err
	}
	if err := s.ruleRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("markup rule deleted",
		zap.String("rule_id", id.String()),
		zap.String("actor", actor.UserID.String()),
	)
	return nil
}

// ResolveProductPrice resolves the B2B and retail price of a product
func (s *Service) ResolveProductPrice(ctx context.Context, productID uuid.UUID) (*PriceResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolve(ctx, product)
	if err != nil {
		return nil, err
	}
	return &PriceResponse{ProductID: product.ID, Cost: product.Cost, ResolvedPrice: resolved}, nil
}

// UpdateProductPricing changes a product's cost or manual prices and appends a
// history row with the resulting effective prices, in one transaction.
// An update that changes nothing writes nothing.
func (s *Service) UpdateProductPricing(ctx context.Context, productID uuid.UUID, req UpdateProductPricingRequest, actor shared.Actor) (*ProductPricingResponse, error) {
	// Rules match on taxonomy, which a pricing change never touches, so they
	// are loaded before the transaction.
	current, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	rules, err := s.ruleRepo.FindApplicable(ctx, *current)
	if err != nil {
		return nil, err
	}

	var resp *ProductPricingResponse
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByID(ctx, productID)
		if err != nil {
			return err
		}

		userID := actor.UserID
		now := s.now()
		changed, err := product.ChangePricing(pricing.PricingChange{
			Cost:              req.Cost,
			ManualB2BPrice:    req.ManualB2BPrice,
			ManualRetailPrice: req.ManualRetailPrice,
			Reason:            req.Reason,
			Actor:             &userID,
		}, now)
		if err != nil {
			return err
		}

		resolved := pricing.ResolvePrice(*product, rules)
		resp = &ProductPricingResponse{
			ProductID:         product.ID,
			Cost:              product.Cost,
			ManualB2BPrice:    product.ManualB2BPrice,
			ManualRetailPrice: product.ManualRetailPrice,
			Changed:           changed,
			Resolved:          resolved,
		}
		if !changed {
			return nil
		}

		if err := repos.ProductRepo().SavePricing(ctx, product); err != nil {
			return err
		}
		entry := pricing.NewPricingHistory(*product, resolved, req.Reason, &userID, now)
		return repos.HistoryRepo().Append(ctx, &entry)
	})
	if err != nil {
		return nil, err
	}

	if resp.Changed {
		s.logger.Info("product pricing updated",
			zap.String("product_id", productID.String()),
			zap.String("b2b_price", resp.Resolved.B2BPrice.String()),
			zap.String("retail_price", resp.Resolved.RetailPrice.String()),
			zap.String("actor", actor.UserID.String()),
		)
	}
	return resp, nil
}

// ListPricingHistory returns a product's pricing history, newest first
func (s *Service) ListPricingHistory(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[PricingHistoryResponse], error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	entries, total, err := s.historyRepo.ListByProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(toHistoryResponses(entries), total, max(filter.Page, 1), filter.Limit())
	return &page, nil
}

func (s *Service) resolve(ctx context.Context, product *pricing.Product) (pricing.ResolvedPrice, error) {
	rules, err := s.ruleRepo.FindApplicable(ctx, *product)
	if err != nil {
		return pricing.ResolvedPrice{}, err
	}
	resolved := pricing.ResolvePrice(*product, rules)
	s.metrics.RecordPriceResolution(ctx, string(resolved.RuleScope), resolved.B2BOverridden || resolved.RetailOverridden)
	return resolved, nil
}

func (s *Service) authorize(actor shared.Actor) error {
	if !actor.HasAnyRole(s.elevatedRoles...) {
		return shared.NewForbiddenError("Managing markup rules requires an elevated role")
	}
	return nil
}

func (s *Service) checkTarget(ctx context.Context, input pricing.MarkupRuleInput) error {
	if err := pricing.ValidateRuleInput(input); err != nil {
		return err
	}
	if input.Scope == pricing.ScopeGlobal || s.targets == nil {
		return nil
	}
	exists, err := s.targets.TargetExists(ctx, input.Scope, *input.TargetID)
	if err != nil {
		return err
	}
	if !exists {
		return shared.NewPreconditionError(shared.CodeRuleTargetNotFound,
			"The "+input.Scope.String()+" targeted by the rule does not exist").
			WithDetail("target_id", input.TargetID.String())
	}
	return nil
}
