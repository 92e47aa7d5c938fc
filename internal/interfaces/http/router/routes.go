package router

import (
	"github.com/erp/proposals/internal/interfaces/http/handler"
	"github.com/erp/proposals/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// PricingRoutes mounts markup rules and product pricing under /pricing.
// Rule mutations require one of elevatedRoles.
func PricingRoutes(h *handler.PricingHandler, elevatedRoles []string) *DomainGroup {
	requireElevated := middleware.RequireRole(elevatedRoles...)

	pricing := NewDomainGroup("pricing", "/pricing")

	rules := pricing.Group("rules", "/rules")
	rules.GET("", h.ListRules)
	rules.GET("/:id", h.GetRule)
	rules.POST("", requireElevated, h.CreateRule)
	rules.PUT("/:id", requireElevated, h.UpdateRule)
	rules.DELETE("/:id", requireElevated, h.DeleteRule)

	products := pricing.Group("products", "/products")
	products.GET("/:id/price", h.GetProductPrice)
	products.PUT("/:id/pricing", h.UpdateProductPricing)
	products.GET("/:id/history", h.ListPricingHistory)

	return pricing
}

// ProposalRoutes mounts generation, lifecycle and ERP sync under /proposals
func ProposalRoutes(h *handler.ProposalHandler) *DomainGroup {
	return NewDomainGroup("proposals", "/proposals").
		POST("/generate", h.Generate).
		GET("/:id", h.Get).
		POST("/:id/status", h.TransitionStatus).
		POST("/:id/send", h.RecordSend).
		POST("/:id/erp", h.SendToERP).
		POST("/:id/erp/validate", h.ValidateERPLines)
}

// RegisterHealth mounts the probes outside the versioned, authenticated API
func RegisterHealth(engine *gin.Engine, h *handler.HealthHandler) {
	engine.GET("/health", h.Health)
	engine.GET("/ready", h.Ready)
}
