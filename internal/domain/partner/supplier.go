package partner

import "github.com/nexus/backend/internal/domain/shared"

// SupplierStatus represents the status of a supplier
type SupplierStatus string

const (
	SupplierStatusActive   SupplierStatus = "active"
	SupplierStatusInactive SupplierStatus = "inactive"
)

// Supplier is a company goods are purchased from
type Supplier struct {
	shared.BaseEntity
	shared.UserTracked
	CompanyName string         `json:"companyName" validate:"min=2"`
	ContactName string         `json:"contactName,omitempty"`
	Email       string         `json:"email" validate:"email"`
	Phone       string         `json:"phone,omitempty"`
	Address     string         `json:"address,omitempty"`
	City        string         `json:"city,omitempty"`
	PostalCode  string         `json:"postalCode,omitempty"`
	Country     string         `json:"country,omitempty"`
	Website     string         `json:"website,omitempty"`
	Notes       string         `json:"notes,omitempty"`
	Status      SupplierStatus `json:"status" validate:"oneof=active inactive"`
}

// NewSupplier returns a supplier in its initial state
func NewSupplier() Supplier {
	return Supplier{Status: SupplierStatusInactive}
}
