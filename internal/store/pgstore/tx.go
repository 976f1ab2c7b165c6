package pgstore

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/MikeMC777/customer-orders/internal/apperr"
	"github.com/MikeMC777/customer-orders/internal/customer"
	"github.com/MikeMC777/customer-orders/internal/order"
	"github.com/MikeMC777/customer-orders/internal/store"
)

// SQLSTATE codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// unique constraint names, as declared in migrations/
const (
	constraintEmail       = "customers_email_key"
	constraintOrderNumber = "orders_order_number_key"
)

type pgTx struct{ tx pgx.Tx }

func (t *pgTx) CreateCustomer(ctx context.Context, c *customer.Customer) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO customers (name, email, customer_since)
		VALUES ($1,$2,$3)
		RETURNING id
	`, c.Name, c.Email, c.CustomerSince).Scan(&c.ID)
	return translate(err, "insert customer")
}

func (t *pgTx) GetCustomer(ctx context.Context, id int64) (*customer.Customer, error) {
	var c customer.Customer
	err := t.tx.QueryRow(ctx, `
		SELECT id, name, email, customer_since
		FROM customers WHERE id=$1
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.CustomerSince)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.CustomerNotFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "select customer")
	}
	return &c, nil
}

func (t *pgTx) ListCustomers(ctx context.Context) ([]customer.Customer, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT id, name, email, customer_since
		FROM customers ORDER BY id
	`)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	defer rows.Close()

	out := []customer.Customer{}
	for rows.Next() {
		var c customer.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.CustomerSince); err != nil {
			return nil, errors.Wrap(err, "scan customer")
		}
		out = append(out, c)
	}
	return out, errors.Wrap(rows.Err(), "list customers")
}

func (t *pgTx) UpdateCustomer(ctx context.Context, c *customer.Customer) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE customers
		SET name = $2,
		    email = $3,
		    customer_since = $4
		WHERE id = $1
	`, c.ID, c.Name, c.Email, c.CustomerSince)
	if err != nil {
		return translate(err, "update customer")
	}
	if tag.RowsAffected() == 0 {
		return store.CustomerNotFound(c.ID)
	}
	return nil
}

func (t *pgTx) DeleteCustomer(ctx context.Context, id int64) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return errors.Wrap(err, "delete customer")
	}
	if tag.RowsAffected() == 0 {
		return store.CustomerNotFound(id)
	}
	return nil
}

func (t *pgTx) CreateOrder(ctx context.Context, o *order.Order) error {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO orders (order_number, total_cents, customer_id)
		VALUES ($1,$2,$3)
		RETURNING id
	`, o.OrderNumber, o.TotalCents, o.CustomerID).Scan(&o.ID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return store.OrderCustomerNotFound(o.CustomerID)
	}
	return translate(err, "insert order")
}

func (t *pgTx) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	var o order.Order
	err := t.tx.QueryRow(ctx, `
		SELECT id, order_number, total_cents, customer_id
		FROM orders WHERE id=$1
	`, id).Scan(&o.ID, &o.OrderNumber, &o.TotalCents, &o.CustomerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.OrderNotFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "select order")
	}
	return &o, nil
}

func (t *pgTx) ListOrders(ctx context.Context) ([]order.Order, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT id, order_number, total_cents, customer_id
		FROM orders ORDER BY id
	`)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	defer rows.Close()

	out := []order.Order{}
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.TotalCents, &o.CustomerID); err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		out = append(out, o)
	}
	return out, errors.Wrap(rows.Err(), "list orders")
}

// translate turns unique violations into conflicts and wraps anything else.
// It returns nil for a nil err.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Conflict(conflictReason(pgErr.ConstraintName))
	}
	return errors.Wrap(err, op)
}

// conflictReason maps the unique constraints of the migrations to their client
// message. Any other key, a primary key included, gets the generic one.
func conflictReason(constraint string) string {
	switch constraint {
	case constraintEmail:
		return store.MsgEmailExists
	case constraintOrderNumber:
		return store.MsgOrderNumberExists
	}
	return store.MsgAlreadyExists
}
