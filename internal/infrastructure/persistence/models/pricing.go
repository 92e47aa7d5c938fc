package models

import (
	"time"

	"github.com/erp/proposals/internal/domain/pricing"
	"github.com/erp/proposals/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MarkupRuleModel is the persistence model for the MarkupRule aggregate.
type MarkupRuleModel struct {
	AggregateModel
	Name                string            `gorm:"type:varchar(200);not null"`
	Scope               pricing.RuleScope `gorm:"type:varchar(20);not null;index:idx_markup_rules_scope_target,priority:1"`
	TargetID            *uuid.UUID        `gorm:"type:uuid;index:idx_markup_rules_scope_target,priority:2"`
	Priority            int               `gorm:"not null;default:0"`
	B2BMarkupPercent    decimal.Decimal   `gorm:"column:b2b_markup_percent;type:decimal(9,4);not null;default:0"`
	RetailMarkupPercent decimal.Decimal   `gorm:"type:decimal(9,4);not null;default:0"`
	MinB2BPrice         *decimal.Decimal  `gorm:"column:min_b2b_price;type:decimal(18,4)"`
	MaxB2BPrice         *decimal.Decimal  `gorm:"column:max_b2b_price;type:decimal(18,4)"`
	MinRetailPrice      *decimal.Decimal  `gorm:"type:decimal(18,4)"`
	MaxRetailPrice      *decimal.Decimal  `gorm:"type:decimal(18,4)"`
	Active              bool              `gorm:"not null;index"`
	CreatedBy           *uuid.UUID        `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (MarkupRuleModel) TableName() string {
	return "markup_rules"
}

// ToDomain converts the persistence model to a domain MarkupRule.
func (m *MarkupRuleModel) ToDomain() *pricing.MarkupRule {
	return &pricing.MarkupRule{
		BaseAggregateRoot:   m.ToAggregateRoot(),
		Name:                m.Name,
		Scope:               m.Scope,
		TargetID:            m.TargetID,
		Priority:            m.Priority,
		B2BMarkupPercent:    m.B2BMarkupPercent,
		RetailMarkupPercent: m.RetailMarkupPercent,
		B2BBounds:           pricing.PriceBounds{Min: m.MinB2BPrice, Max: m.MaxB2BPrice},
		RetailBounds:        pricing.PriceBounds{Min: m.MinRetailPrice, Max: m.MaxRetailPrice},
		Active:              m.Active,
		CreatedBy:           m.CreatedBy,
	}
}

// FromDomain populates the persistence model from a domain MarkupRule.
func (m *MarkupRuleModel) FromDomain(r *pricing.MarkupRule) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.Name = r.Name
	m.Scope = r.Scope
	m.TargetID = r.TargetID
	m.Priority = r.Priority
	m.B2BMarkupPercent = r.B2BMarkupPercent
	m.RetailMarkupPercent = r.RetailMarkupPercent
	m.MinB2BPrice = r.B2BBounds.Min
	m.MaxB2BPrice = r.B2BBounds.Max
	m.MinRetailPrice = r.RetailBounds.Min
	m.MaxRetailPrice = r.RetailBounds.Max
	m.Active = r.Active
	m.CreatedBy = r.CreatedBy
}

// MarkupRuleModelFromDomain creates a new persistence model from a domain MarkupRule.
func MarkupRuleModelFromDomain(r *pricing.MarkupRule) *MarkupRuleModel {
	m := &MarkupRuleModel{}
	m.FromDomain(r)
	return m
}

// ProductModel is the persistence model for the pricing view of a product.
type ProductModel struct {
	BaseModel
	Name              string           `gorm:"type:varchar(200);not null"`
	ERPCode           string           `gorm:"column:erp_code;type:varchar(100);index"`
	IsService         bool             `gorm:"not null;default:false"`
	Cost              *decimal.Decimal `gorm:"type:decimal(18,4)"`
	ManualB2BPrice    *decimal.Decimal `gorm:"column:manual_b2b_price;type:decimal(18,4)"`
	ManualRetailPrice *decimal.Decimal `gorm:"type:decimal(18,4)"`
	BrandID           *uuid.UUID       `gorm:"type:uuid;index"`
	ManufacturerID    *uuid.UUID       `gorm:"type:uuid;index"`
	CategoryID        *uuid.UUID       `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *pricing.Product {
	return &pricing.Product{
		BaseEntity:        m.BaseModel.ToDomain(),
		Name:              m.Name,
		ERPCode:           m.ERPCode,
		IsService:         m.IsService,
		Cost:              m.Cost,
		ManualB2BPrice:    m.ManualB2BPrice,
		ManualRetailPrice: m.ManualRetailPrice,
		BrandID:           m.BrandID,
		ManufacturerID:    m.ManufacturerID,
		CategoryID:        m.CategoryID,
	}
}

// FromDomain populates the persistence model from a domain Product.
func (m *ProductModel) FromDomain(p *pricing.Product) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.ERPCode = p.ERPCode
	m.IsService = p.IsService
	m.Cost = p.Cost
	m.ManualB2BPrice = p.ManualB2BPrice
	m.ManualRetailPrice = p.ManualRetailPrice
	m.BrandID = p.BrandID
	m.ManufacturerID = p.ManufacturerID
	m.CategoryID = p.CategoryID
}

// PricingHistoryModel is an append-only pricing audit row.
type PricingHistoryModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_pricing_history_product,priority:1"`
	Cost        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	B2BPrice    decimal.Decimal `gorm:"column:b2b_price;type:decimal(18,4);not null"`
	RetailPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason      string          `gorm:"type:text;not null"`
	Actor       *uuid.UUID      `gorm:"type:uuid"`
	RecordedAt  time.Time       `gorm:"not null;index:idx_pricing_history_product,priority:2"`
}

// TableName returns the table name for GORM
func (PricingHistoryModel) TableName() string {
	return "product_pricing_history"
}

// ToDomain converts the persistence model to a domain history entry.
func (m *PricingHistoryModel) ToDomain() pricing.ProductPricingHistory {
	return pricing.ProductPricingHistory{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Cost:        m.Cost,
		B2BPrice:    m.B2BPrice,
		RetailPrice: m.RetailPrice,
		Reason:      m.Reason,
		Actor:       m.Actor,
		RecordedAt:  m.RecordedAt,
	}
}

// PricingHistoryModelFromDomain creates a persistence model from a domain entry.
func PricingHistoryModelFromDomain(h *pricing.ProductPricingHistory) *PricingHistoryModel {
	return &PricingHistoryModel{
		ID:          h.ID,
		ProductID:   h.ProductID,
		Cost:        h.Cost,
		B2BPrice:    h.B2BPrice,
		RetailPrice: h.RetailPrice,
		Reason:      h.Reason,
		Actor:       h.Actor,
		RecordedAt:  h.RecordedAt,
	}
}

// BrandModel is a rule target for brand-scoped markups.
type BrandModel struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (BrandModel) TableName() string {
	return "brands"
}

// ManufacturerModel is a rule target for manufacturer-scoped markups.
type ManufacturerModel struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (ManufacturerModel) TableName() string {
	return "manufacturers"
}

// CategoryModel is a rule target for category-scoped markups.
type CategoryModel struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// NewBaseModel returns a BaseModel with a fresh id
func NewBaseModel() BaseModel {
	var m BaseModel
	m.FromDomainBaseEntity(shared.NewBaseEntity())
	return m
}
