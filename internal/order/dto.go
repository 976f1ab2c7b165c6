// Package order holds the order entity and its creation payload.
package order

import "github.com/MikeMC777/customer-orders/internal/validation"

// CreateOrderRequest payload of order creation.
// A client-supplied "id" is ignored; ids are assigned by the store.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	OrderNumber int   `json:"order_number" validate:"required,min=3,max=20"      example:"7"`
	TotalCents  int   `json:"total_cents"  validate:"required,min=1,max=1000000" example:"500"`
	CustomerID  int64 `json:"customer_id"  validate:"required,min=1"             example:"1"`
}

// ValidateReference checks customer_id alone, so the owner can be resolved
// before the remaining fields are judged.
func (r CreateOrderRequest) ValidateReference() error {
	return validation.Var("customer_id", r.CustomerID, "required,min=1")
}

// Validate checks every field.
func (r CreateOrderRequest) Validate() error { return validation.Struct(r) }

// Order builds the row to insert.
func (r CreateOrderRequest) Order() *Order {
	return &Order{
		OrderNumber: r.OrderNumber,
		TotalCents:  r.TotalCents,
		CustomerID:  r.CustomerID,
	}
}
