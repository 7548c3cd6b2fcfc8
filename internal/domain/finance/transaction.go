package finance

import (
	"github.com/nexus/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of money
type TransactionType string

const (
	TransactionTypeRevenue TransactionType = "revenue"
	TransactionTypeExpense TransactionType = "expense"
)

// TransactionStatus represents the settlement state of a transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// SourceType names the kind of record a transaction was generated from
type SourceType string

const (
	SourceTypeSale          SourceType = "sale"
	SourceTypeSupplierOrder SourceType = "supplier_order"
	SourceTypeOther         SourceType = "other"
)

// Transaction is a ledger entry. SourceType and SourceID optionally point at
// the sale or supplier order that produced it; the link is not enforced.
type Transaction struct {
	shared.BaseEntity
	Reference     string            `json:"reference"`
	Type          TransactionType   `json:"type" validate:"oneof=revenue expense"`
	SourceType    SourceType        `json:"sourceType,omitempty" validate:"omitempty,oneof=sale supplier_order other"`
	SourceID      string            `json:"sourceId,omitempty"`
	CategoryID    string            `json:"categoryId" validate:"required"`
	Description   string            `json:"description" validate:"min=2"`
	Amount        decimal.Decimal   `json:"amount" validate:"gt=0"`
	PaymentMethod string            `json:"paymentMethod" validate:"required"`
	Date          string            `json:"date" validate:"required"`
	Status        TransactionStatus `json:"status" validate:"oneof=pending completed failed"`
	CreatedBy     string            `json:"createdBy"`
}

// NewTransaction returns a transaction in its initial state
func NewTransaction() Transaction {
	return Transaction{
		Type:   TransactionTypeExpense,
		Status: TransactionStatusPending,
		Amount: decimal.Zero,
	}
}

// TrackCreate records actor as creator unless the payload named one
func (t *Transaction) TrackCreate(actor string) {
	if t.CreatedBy == "" {
		t.CreatedBy = actor
	}
}

// IsSettled reports whether the transaction is completed
func (t *Transaction) IsSettled() bool {
	return t.Status == TransactionStatusCompleted
}

// TransactionCategory classifies transactions for reporting
type TransactionCategory struct {
	shared.BaseEntity
	Name        string          `json:"name" validate:"min=2"`
	Type        TransactionType `json:"type" validate:"oneof=revenue expense"`
	Description string          `json:"description,omitempty"`
}

// NewTransactionCategory returns a category in its initial state
func NewTransactionCategory() TransactionCategory {
	return TransactionCategory{Type: TransactionTypeExpense}
}
