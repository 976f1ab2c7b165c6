package order

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Order belongs to exactly one customer and is deleted with it.
type Order struct {
	ID          int64 `json:"id"           example:"1"`
	OrderNumber int   `json:"order_number" example:"7"`
	TotalCents  int   `json:"total_cents"  example:"500"`
	CustomerID  int64 `json:"customer_id"  example:"1"`
}

// Total renders TotalCents as a decimal amount with two places ("5.00").
func (o Order) Total() string {
	return decimal.New(int64(o.TotalCents), -2).StringFixed(2)
}

// MarshalJSON adds the read-only "total" field.
func (o Order) MarshalJSON() ([]byte, error) {
	type fields Order
	return json.Marshal(struct {
		fields
		Total string `json:"total"`
	}{fields(o), o.Total()})
}
