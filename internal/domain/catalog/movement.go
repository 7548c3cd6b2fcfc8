package catalog

import "github.com/nexus/backend/internal/domain/shared"

// MovementType describes the direction of a stock movement
type MovementType string

const (
	MovementTypeIn         MovementType = "in"
	MovementTypeOut        MovementType = "out"
	MovementTypeAdjustment MovementType = "adjustment"
)

// ProductMovement is a stock change recorded against a product.
// Recording a movement does not change Product.StockQuantity.
type ProductMovement struct {
	shared.BaseEntity
	ProductID string       `json:"productId" validate:"required"`
	Type      MovementType `json:"type" validate:"oneof=in out adjustment"`
	Quantity  int          `json:"quantity"`
	Reason    string       `json:"reason,omitempty"`
	Date      string       `json:"date"`
	UserID    string       `json:"userId"`
}

// NewProductMovement returns a movement in its initial state
func NewProductMovement() ProductMovement {
	return ProductMovement{Type: MovementTypeAdjustment}
}
