package trade

import (
	"github.com/nexus/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SupplierOrderStatus represents the status of a purchase order
type SupplierOrderStatus string

const (
	SupplierOrderStatusDraft             SupplierOrderStatus = "draft"
	SupplierOrderStatusOrdered           SupplierOrderStatus = "ordered"
	SupplierOrderStatusPartiallyReceived SupplierOrderStatus = "partially_received"
	SupplierOrderStatusReceived          SupplierOrderStatus = "received"
	SupplierOrderStatusCancelled         SupplierOrderStatus = "cancelled"
)

// SupplierOrder is the header of a purchase order sent to a supplier
type SupplierOrder struct {
	shared.BaseEntity
	SupplierID   string              `json:"supplierId" validate:"required"`
	OrderNumber  string              `json:"orderNumber"`
	OrderDate    string              `json:"orderDate"`
	ExpectedDate string              `json:"expectedDate,omitempty"`
	TotalAmount  decimal.Decimal     `json:"totalAmount" validate:"gte=0"`
	Status       SupplierOrderStatus `json:"status" validate:"oneof=draft ordered partially_received received cancelled"`
	CreatedBy    string              `json:"createdBy"`
}

// NewSupplierOrder returns a supplier order in its initial state
func NewSupplierOrder() SupplierOrder {
	return SupplierOrder{Status: SupplierOrderStatusDraft, TotalAmount: decimal.Zero}
}

// TrackCreate records actor as creator unless the payload named one
func (o *SupplierOrder) TrackCreate(actor string) {
	if o.CreatedBy == "" {
		o.CreatedBy = actor
	}
}

// IsOpen reports whether goods are still expected for the order
func (o *SupplierOrder) IsOpen() bool {
	return o.Status == SupplierOrderStatusOrdered || o.Status == SupplierOrderStatusPartiallyReceived
}

// SupplierOrderItem is one line of a supplier order
type SupplierOrderItem struct {
	shared.BaseEntity
	SupplierOrderID string          `json:"supplierOrderId"`
	ProductID       string          `json:"productId" validate:"required"`
	Quantity        int             `json:"quantity" validate:"min=1"`
	UnitPrice       decimal.Decimal `json:"unitPrice" validate:"gte=0"`
	TotalPrice      decimal.Decimal `json:"totalPrice" validate:"gte=0"`
}

// NewSupplierOrderItem returns an order item in its initial state
func NewSupplierOrderItem() SupplierOrderItem {
	return SupplierOrderItem{UnitPrice: decimal.Zero, TotalPrice: decimal.Zero}
}

// GetParentID returns the owning order id
func (i *SupplierOrderItem) GetParentID() string {
	return i.SupplierOrderID
}

// SetParentID attaches the item to an order
func (i *SupplierOrderItem) SetParentID(id string) {
	i.SupplierOrderID = id
}
