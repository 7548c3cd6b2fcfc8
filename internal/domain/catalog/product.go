package catalog

import (
	"github.com/nexus/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusArchived ProductStatus = "archived"
)

// DefaultUnit is the unit assigned to products that do not name one
const DefaultUnit = "piece"

// Product is a sellable catalog item
type Product struct {
	shared.BaseEntity
	shared.UserTracked
	Name             string          `json:"name" validate:"min=2"`
	Reference        string          `json:"reference" validate:"min=2"`
	DescriptionShort string          `json:"descriptionShort,omitempty"`
	DescriptionLong  string          `json:"descriptionLong,omitempty"`
	CategoryID       string          `json:"categoryId" validate:"required"`
	StockQuantity    int             `json:"stockQuantity" validate:"gte=0"`
	Unit             string          `json:"unit"`
	PriceSale        decimal.Decimal `json:"priceSale" validate:"gte=0"`
	PricePurchase    decimal.Decimal `json:"pricePurchase" validate:"gte=0"`
	Status           ProductStatus   `json:"status" validate:"oneof=active inactive archived"`
	Images           []string        `json:"images,omitempty"`
}

// NewProduct returns a product in its initial state
func NewProduct() Product {
	return Product{
		Unit:          DefaultUnit,
		Status:        ProductStatusInactive,
		PriceSale:     decimal.Zero,
		PricePurchase: decimal.Zero,
	}
}

// IsActive reports whether the product is currently offered
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}
