// Package service implements the customer and order operations. Each call
// validates its input and then runs in exactly one unit of work.
package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/MikeMC777/customer-orders/internal/apperr"
	"github.com/MikeMC777/customer-orders/internal/customer"
	"github.com/MikeMC777/customer-orders/internal/order"
	"github.com/MikeMC777/customer-orders/internal/store"
)

type Service struct {
	uow store.UnitOfWork
}

func New(uow store.UnitOfWork) *Service {
	return &Service{uow: uow}
}

// Ping reports whether the store answers.
func (s *Service) Ping(ctx context.Context) error { return s.uow.Ping(ctx) }

// CreateCustomer inserts a customer. A taken email is a conflict.
func (s *Service) CreateCustomer(ctx context.Context, in customer.CreateCustomerRequest) (*customer.Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c := &customer.Customer{}
	in.Apply(c)
	err := s.uow.Do(ctx, func(tx store.Tx) error {
		return tx.CreateCustomer(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*customer.Customer, error) {
	var out *customer.Customer
	err := s.uow.Do(ctx, func(tx store.Tx) (err error) {
		out, err = tx.GetCustomer(ctx, id)
		return err
	})
	return out, err
}

// ListCustomers returns all customers ordered by id.
func (s *Service) ListCustomers(ctx context.Context) ([]customer.Customer, error) {
	var out []customer.Customer
	err := s.uow.Do(ctx, func(tx store.Tx) (err error) {
		out, err = tx.ListCustomers(ctx)
		return err
	})
	return out, err
}

// ReplaceCustomer overwrites every field of an existing customer.
func (s *Service) ReplaceCustomer(ctx context.Context, id int64, in customer.ReplaceCustomerRequest) (*customer.Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out *customer.Customer
	err := s.uow.Do(ctx, func(tx store.Tx) error {
		c, err := tx.GetCustomer(ctx, id)
		if err != nil {
			return err
		}
		in.Apply(c)
		if err := tx.UpdateCustomer(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

// PatchCustomer applies only the fields present in the patch.
func (s *Service) PatchCustomer(ctx context.Context, id int64, in *customer.PatchCustomerRequest) (*customer.Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var out *customer.Customer
	err := s.uow.Do(ctx, func(tx store.Tx) error {
		c, err := tx.GetCustomer(ctx, id)
		if err != nil {
			return err
		}
		if !in.Empty() {
			in.Apply(c)
			if err := tx.UpdateCustomer(ctx, c); err != nil {
				return err
			}
		}
		out = c
		return nil
	})
	return out, err
}

// DeleteCustomer removes a customer and, through the foreign key, its orders.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	return s.uow.Do(ctx, func(tx store.Tx) error {
		return tx.DeleteCustomer(ctx, id)
	})
}

// CreateOrder inserts an order for an existing customer. The owner is looked
// up first so an unknown customer_id reads as not found rather than as a
// range or constraint failure.
func (s *Service) CreateOrder(ctx context.Context, in order.CreateOrderRequest) (*order.Order, error) {
	if err := in.ValidateReference(); err != nil {
		return nil, err
	}
	var out *order.Order
	err := s.uow.Do(ctx, func(tx store.Tx) error {
		if _, err := tx.GetCustomer(ctx, in.CustomerID); err != nil {
			return orderOwnerErr(err, in.CustomerID)
		}
		if err := in.Validate(); err != nil {
			return err
		}
		o := in.Order()
		if err := tx.CreateOrder(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	return out, err
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	var out *order.Order
	err := s.uow.Do(ctx, func(tx store.Tx) (err error) {
		out, err = tx.GetOrder(ctx, id)
		return err
	})
	return out, err
}

// ListOrders returns all orders ordered by id.
func (s *Service) ListOrders(ctx context.Context) ([]order.Order, error) {
	var out []order.Order
	err := s.uow.Do(ctx, func(tx store.Tx) (err error) {
		out, err = tx.ListOrders(ctx)
		return err
	})
	return out, err
}

// orderOwnerErr rewords a missing owner for the order endpoint.
func orderOwnerErr(err error, customerID int64) error {
	var nf *apperr.NotFoundError
	if errors.As(err, &nf) {
		return store.OrderCustomerNotFound(customerID)
	}
	return err
}
