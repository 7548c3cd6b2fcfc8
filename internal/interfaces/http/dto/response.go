// Package dto holds the HTTP response envelope and the error code table.
package dto

// Response is the envelope of every API answer. Error is a free-text
// message and is only set when Success is false.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) Response {
	return Response{
		Success: false,
		Error:   message,
	}
}

// SaleRequest is the composite body of sale writes
type SaleRequest struct {
	SaleData  RawObject   `json:"saleData"`
	ItemsData []RawObject `json:"itemsData"`
}

// SaleResponse is the composite answer of sale writes
type SaleResponse struct {
	Sale  any `json:"sale"`
	Items any `json:"items"`
}

// SupplierOrderRequest is the composite body of supplier order writes
type SupplierOrderRequest struct {
	OrderData RawObject   `json:"orderData"`
	ItemsData []RawObject `json:"itemsData"`
}

// SupplierOrderResponse is the composite answer of supplier order writes
type SupplierOrderResponse struct {
	Order any `json:"order"`
	Items any `json:"items"`
}
