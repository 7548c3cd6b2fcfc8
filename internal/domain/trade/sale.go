package trade

import (
	"github.com/nexus/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleStatus represents the status of a sale
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
	SaleStatusRefunded  SaleStatus = "refunded"
)

// Sale is the header of a sale to a client. Its line items are SaleItem
// records pointing back through SaleID. TotalAmount is stored as supplied.
type Sale struct {
	shared.BaseEntity
	SaleNumber    string          `json:"saleNumber"`
	ClientID      string          `json:"clientId" validate:"required"`
	UserID        string          `json:"userId"`
	Date          string          `json:"date"`
	TotalAmount   decimal.Decimal `json:"totalAmount" validate:"gte=0"`
	Status        SaleStatus      `json:"status" validate:"oneof=pending completed cancelled refunded"`
	PaymentMethod string          `json:"paymentMethod" validate:"required"`
	Notes         string          `json:"notes,omitempty"`
}

// NewSale returns a sale in its initial state
func NewSale() Sale {
	return Sale{Status: SaleStatusPending, TotalAmount: decimal.Zero}
}

// TrackCreate attributes the sale to actor unless the payload named a seller
func (s *Sale) TrackCreate(actor string) {
	if s.UserID == "" {
		s.UserID = actor
	}
}

// IsCompleted reports whether the sale was paid and delivered
func (s *Sale) IsCompleted() bool {
	return s.Status == SaleStatusCompleted
}

// SaleItem is one line of a sale
type SaleItem struct {
	shared.BaseEntity
	SaleID     string          `json:"saleId"`
	ProductID  string          `json:"productId" validate:"required"`
	Quantity   int             `json:"quantity" validate:"min=1"`
	UnitPrice  decimal.Decimal `json:"unitPrice" validate:"gte=0"`
	TotalPrice decimal.Decimal `json:"totalPrice" validate:"gte=0"`
}

// NewSaleItem returns a sale item in its initial state
func NewSaleItem() SaleItem {
	return SaleItem{UnitPrice: decimal.Zero, TotalPrice: decimal.Zero}
}

// GetParentID returns the owning sale id
func (i *SaleItem) GetParentID() string {
	return i.SaleID
}

// SetParentID attaches the item to a sale
func (i *SaleItem) SetParentID(id string) {
	i.SaleID = id
}
