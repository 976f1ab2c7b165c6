// Package store defines the unit of work the service runs each request in.
// Backends live in the pgstore and sqlitestore subpackages.
package store

import (
	"context"

	"github.com/MikeMC777/customer-orders/internal/apperr"
	"github.com/MikeMC777/customer-orders/internal/customer"
	"github.com/MikeMC777/customer-orders/internal/order"
)

// Messages returned to clients.
const (
	MsgCustomerNotFound  = "Couldn't find customer with matching ID"
	MsgOrderNotFound     = "Couldn't find order with matching ID"
	MsgOrderCustomer     = "Couldn't find customer account"
	MsgEmailExists       = "Email already exists"
	MsgOrderNumberExists = "Order number already exists"
	MsgAlreadyExists     = "Record already exists"
)

const (
	EntityCustomer = "customer"
	EntityOrder    = "order"
)

// CustomerNotFound is the error for an absent customer id.
func CustomerNotFound(id int64) error {
	return apperr.NotFound(EntityCustomer, id, MsgCustomerNotFound)
}

// OrderNotFound is the error for an absent order id.
func OrderNotFound(id int64) error {
	return apperr.NotFound(EntityOrder, id, MsgOrderNotFound)
}

// OrderCustomerNotFound is the error for an order naming an absent customer.
func OrderCustomerNotFound(id int64) error {
	return apperr.NotFound(EntityCustomer, id, MsgOrderCustomer)
}

// UnitOfWork runs a function inside one transaction.
type UnitOfWork interface {
	// Do commits when fn returns nil and rolls back otherwise. The rollback
	// has happened by the time Do returns fn's error.
	Do(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}

// Tx is the set of row operations available inside a transaction.
// Lookups of absent rows return *apperr.NotFoundError, unique violations
// *apperr.ConflictError.
type Tx interface {
	CreateCustomer(ctx context.Context, c *customer.Customer) error
	GetCustomer(ctx context.Context, id int64) (*customer.Customer, error)
	ListCustomers(ctx context.Context) ([]customer.Customer, error)
	UpdateCustomer(ctx context.Context, c *customer.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error

	CreateOrder(ctx context.Context, o *order.Order) error
	GetOrder(ctx context.Context, id int64) (*order.Order, error)
	ListOrders(ctx context.Context) ([]order.Order, error)
}
