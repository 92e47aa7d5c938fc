package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	pricingapp "github.com/erp/proposals/internal/application/pricing"
	"github.com/erp/proposals/internal/domain/pricing"
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPricingRouter(svc *MockPricingService, actor *shared.Actor) *gin.Engine {
	h := NewPricingHandler(svc)
	router := newTestRouter(actor, nil)
	router.GET("/pricing/rules", h.ListRules)
	router.GET("/pricing/rules/:id", h.GetRule)
	router.POST("/pricing/rules", h.CreateRule)
	router.PUT("/pricing/rules/:id", h.UpdateRule)
	router.DELETE("/pricing/rules/:id", h.DeleteRule)
	router.GET("/pricing/products/:id/price", h.GetProductPrice)
	router.PUT("/pricing/products/:id/pricing", h.UpdateProductPricing)
	router.GET("/pricing/products/:id/history", h.ListPricingHistory)
	return router
}

func TestPricingHandler_ListRules(t *testing.T) {
	svc := new(MockPricingService)
	rules := []pricingapp.MarkupRuleResponse{{ID: uuid.New(), Name: "Brand X", Scope: "brand", Priority: 10}}
	svc.On("ListRules", mock.Anything, pricingapp.RuleListFilter{Scope: "brand", ActiveOnly: true}).Return(rules, nil)

	w := doJSON(newPricingRouter(svc, testActor("sales")), http.MethodGet, "/pricing/rules?scope=brand&active=true", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got []pricingapp.MarkupRuleResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &got))
	assert.Equal(t, "Brand X", got[0].Name)
	svc.AssertExpectations(t)
}

func TestPricingHandler_ListRules_InvalidScope(t *testing.T) {
	svc := new(MockPricingService)
	w := doJSON(newPricingRouter(svc, testActor()), http.MethodGet, "/pricing/rules?scope=planet", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "ListRules", mock.Anything, mock.Anything)
}

func TestPricingHandler_CreateRule(t *testing.T) {
	actor := testActor("pricing_manager")
	target := uuid.New()

	t.Run("created", func(t *testing.T) {
		svc := new(MockPricingService)
		svc.On("CreateRule", mock.Anything, mock.MatchedBy(func(req pricingapp.MarkupRuleRequest) bool {
			return req.Scope == "brand" && req.TargetID != nil && *req.TargetID == target &&
				req.B2BMarkupPercent.Equal(decimal.NewFromInt(20))
		}), *actor).Return(&pricingapp.MarkupRuleResponse{ID: uuid.New(), Name: "Brand X"}, nil)

		body := map[string]any{
			"name":                  "Brand X",
			"scope":                 "brand",
			"target_id":             target,
			"priority":              10,
			"b2b_markup_percent":    "20",
			"retail_markup_percent": "35",
		}
		w := doJSON(newPricingRouter(svc, actor), http.MethodPost, "/pricing/rules", body)
		assert.Equal(t, http.StatusCreated, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("binding failure", func(t *testing.T) {
		svc := new(MockPricingService)
		w := doJSON(newPricingRouter(svc, actor), http.MethodPost, "/pricing/rules", map[string]any{"scope": "brand"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		env := decodeEnvelope(t, w)
		assert.Equal(t, shared.CodeValidation, env.Error.Code)
		assert.Contains(t, env.Error.Details, "fields")
	})

	t.Run("forbidden for regular users", func(t *testing.T) {
		svc := new(MockPricingService)
		svc.On("CreateRule", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, shared.NewForbiddenError("Managing markup rules requires an elevated role"))

		body := map[string]any{"name": "Global", "scope": "global", "b2b_markup_percent": "10", "retail_markup_percent": "20"}
		w := doJSON(newPricingRouter(svc, testActor("sales")), http.MethodPost, "/pricing/rules", body)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing target", func(t *testing.T) {
		svc := new(MockPricingService)
		svc.On("CreateRule", mock.Anything, mock.Anything, mock.Anything).Return(nil, pricing.ErrRuleTargetRequired)

		body := map[string]any{"name": "Brand", "scope": "brand", "b2b_markup_percent": "10", "retail_markup_percent": "20"}
		w := doJSON(newPricingRouter(svc, actor), http.MethodPost, "/pricing/rules", body)
		assert.Equal(t, http.StatusPreconditionFailed, w.Code)
		assert.Equal(t, "RULE_TARGET_REQUIRED", decodeEnvelope(t, w).Error.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		svc := new(MockPricingService)
		w := doJSON(newPricingRouter(svc, nil), http.MethodPost, "/pricing/rules", map[string]any{})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPricingHandler_UpdateAndDeleteRule(t *testing.T) {
	actor := testActor("admin")
	id := uuid.New()
	svc := new(MockPricingService)
	svc.On("UpdateRule", mock.Anything, id, mock.Anything, *actor).Return(&pricingapp.MarkupRuleResponse{ID: id, Version: 2}, nil)
	svc.On("DeleteRule", mock.Anything, id, *actor).Return(nil)
	router := newPricingRouter(svc, actor)

	body := map[string]any{"name": "Global", "scope": "global", "b2b_markup_percent": "12", "retail_markup_percent": "25"}
	assert.Equal(t, http.StatusOK, doJSON(router, http.MethodPut, "/pricing/rules/"+id.String(), body).Code)
	assert.Equal(t, http.StatusNoContent, doJSON(router, http.MethodDelete, "/pricing/rules/"+id.String(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(router, http.MethodDelete, "/pricing/rules/42", nil).Code)
	svc.AssertExpectations(t)
}

func TestPricingHandler_GetProductPrice(t *testing.T) {
	productID := uuid.New()
	cost := decimal.NewFromInt(100)
	svc := new(MockPricingService)
	svc.On("ResolveProductPrice", mock.Anything, productID).Return(&pricingapp.PriceResponse{
		ProductID: productID,
		Cost:      &cost,
		ResolvedPrice: pricing.ResolvedPrice{
			B2BPrice:    decimal.RequireFromString("120.00"),
			RetailPrice: decimal.RequireFromString("150.00"),
		},
	}, nil)
	svc.On("ResolveProductPrice", mock.Anything, mock.Anything).Return(nil, shared.NewNotFoundError("product"))
	router := newPricingRouter(svc, testActor())

	w := doJSON(router, http.MethodGet, "/pricing/products/"+productID.String()+"/price", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"product_id":"`+productID.String()+`"`)

	w = doJSON(router, http.MethodGet, "/pricing/products/"+uuid.NewString()+"/price", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPricingHandler_UpdateProductPricing(t *testing.T) {
	actor := testActor("sales")
	productID := uuid.New()
	svc := new(MockPricingService)
	svc.On("UpdateProductPricing", mock.Anything, productID, mock.MatchedBy(func(req pricingapp.UpdateProductPricingRequest) bool {
		return req.Reason == "supplier price list 2026" && req.Cost != nil && req.Cost.Equal(decimal.NewFromInt(80))
	}), *actor).Return(&pricingapp.ProductPricingResponse{ProductID: productID, Changed: true}, nil)
	router := newPricingRouter(svc, actor)

	body := map[string]any{"cost": "80", "reason": "supplier price list 2026"}
	w := doJSON(router, http.MethodPut, "/pricing/products/"+productID.String()+"/pricing", body)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPut, "/pricing/products/"+productID.String()+"/pricing", map[string]any{"cost": "80"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "UpdateProductPricing", 1)
}

func TestPricingHandler_ListPricingHistory(t *testing.T) {
	productID := uuid.New()
	items := []pricingapp.PricingHistoryResponse{{ID: uuid.New(), ProductID: productID, Reason: "initial", RecordedAt: time.Now()}}
	page := shared.NewPaginated(items, 21, 2, 10)

	svc := new(MockPricingService)
	svc.On("ListPricingHistory", mock.Anything, productID, shared.Filter{Page: 2, PageSize: 10}).Return(&page, nil)

	w := doJSON(newPricingRouter(svc, testActor()), http.MethodGet, "/pricing/products/"+productID.String()+"/history?page=2&page_size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(21), env.Meta.Total)
	assert.Equal(t, 3, env.Meta.TotalPages)
	svc.AssertExpectations(t)
}
