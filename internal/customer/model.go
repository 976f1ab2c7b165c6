package customer

// Customer is a stored customer. CustomerSince is nil when the year is unknown.
type Customer struct {
	ID            int64  `json:"id"             example:"1"`
	Name          string `json:"name"           example:"Ann"`
	Email         string `json:"email"          example:"ann@x.com"`
	CustomerSince *int   `json:"customer_since" example:"2020"`
}
