package handler

import (
	"context"

	pricingapp "github.com/erp/proposals/internal/application/pricing"
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/erp/proposals/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PricingService is the pricing application service used by PricingHandler
type PricingService interface {
	ListRules(ctx context.Context, filter pricingapp.RuleListFilter) ([]pricingapp.MarkupRuleResponse, error)
	GetRule(ctx context.Context, id uuid.UUID) (*pricingapp.MarkupRuleResponse, error)
	CreateRule(ctx context.Context, req pricingapp.MarkupRuleRequest, actor shared.Actor) (*pricingapp.MarkupRuleResponse, error)
	UpdateRule(ctx context.Context, id uuid.UUID, req pricingapp.MarkupRuleRequest, actor shared.Actor) (*pricingapp.MarkupRuleResponse, error)
	DeleteRule(ctx context.Context, id uuid.UUID, actor shared.Actor) error
	ResolveProductPrice(ctx context.Context, productID uuid.UUID) (*pricingapp.PriceResponse, error)
	UpdateProductPricing(ctx context.Context, productID uuid.UUID, req pricingapp.UpdateProductPricingRequest, actor shared.Actor) (*pricingapp.ProductPricingResponse, error)
	ListPricingHistory(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[pricingapp.PricingHistoryResponse], error)
}

// PricingHandler serves markup rules and product prices
type PricingHandler struct {
	BaseHandler
	pricing PricingService
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(pricing PricingService) *PricingHandler {
	return &PricingHandler{pricing: pricing}
}

// ListRules handles GET /pricing/rules
func (h *PricingHandler) ListRules(c *gin.Context) {
	var filter pricingapp.RuleListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	rules, err := h.pricing.ListRules(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, rules)
}

// GetRule handles GET /pricing/rules/:id
func (h *PricingHandler) GetRule(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	rule, err := h.pricing.GetRule(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, rule)
}

// CreateRule handles POST /pricing/rules
func (h *PricingHandler) CreateRule(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req pricingapp.MarkupRuleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	rule, err := h.pricing.CreateRule(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, rule)
}

// UpdateRule handles PUT /pricing/rules/:id
func (h *PricingHandler) UpdateRule(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req pricingapp.MarkupRuleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	rule, err := h.pricing.UpdateRule(c.Request.Context(), id, req, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, rule)
}

// DeleteRule handles DELETE /pricing/rules/:id
func (h *PricingHandler) DeleteRule(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.pricing.DeleteRule(c.Request.Context(), id, actor); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// GetProductPrice handles GET /pricing/products/:id/price
func (h *PricingHandler) GetProductPrice(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	price, err := h.pricing.ResolveProductPrice(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, price)
}

// UpdateProductPricing handles PUT /pricing/products/:id/pricing
func (h *PricingHandler) UpdateProductPricing(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req pricingapp.UpdateProductPricingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.pricing.UpdateProductPricing(c.Request.Context(), id, req, actor)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListPricingHistory handles GET /pricing/products/:id/history
func (h *PricingHandler) ListPricingHistory(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	list := dto.DefaultListRequest()
	if !h.bindQuery(c, &list) {
		return
	}
	filter := shared.Filter{Page: list.Page, PageSize: list.PageSize, OrderBy: list.SortBy, OrderDir: list.SortOrder}
	page, err := h.pricing.ListPricingHistory(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
