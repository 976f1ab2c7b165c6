package pgstore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/customer-orders/internal/apperr"
	"github.com/MikeMC777/customer-orders/internal/customer"
	"github.com/MikeMC777/customer-orders/internal/order"
	"github.com/MikeMC777/customer-orders/internal/store"
)

func TestTranslate(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, translate(nil, "op"))
	})

	t.Run("unique on email", func(t *testing.T) {
		err := translate(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "customers_email_key"}, "op")
		var conflict *apperr.ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, store.MsgEmailExists, conflict.Reason)
	})

	t.Run("unique on order number", func(t *testing.T) {
		err := translate(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "orders_order_number_key"}, "op")
		var conflict *apperr.ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, store.MsgOrderNumberExists, conflict.Reason)
	})

	t.Run("unique on any other key", func(t *testing.T) {
		for _, name := range []string{"customers_pkey", "orders_pkey", ""} {
			err := translate(&pgconn.PgError{Code: uniqueViolation, ConstraintName: name}, "op")
			var conflict *apperr.ConflictError
			require.True(t, errors.As(err, &conflict), name)
			assert.Equal(t, store.MsgAlreadyExists, conflict.Reason, name)
		}
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		cause := &pgconn.PgError{Code: "42P01"}
		err := translate(cause, "insert customer")
		var conflict *apperr.ConflictError
		assert.False(t, errors.As(err, &conflict))
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "insert customer")
	})
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db?sslmode=disable", migrateURL("postgres://u:p@h:5432/db?sslmode=disable"))
	assert.Equal(t, "pgx5://h/db", migrateURL("postgresql://h/db"))
	assert.Equal(t, "pgx5://h/db", migrateURL("pgx5://h/db"))
}

// TestStore_Postgres runs against a live database named by POSTGRES_TEST_DSN.
// The schema is migrated down and up, so use a throwaway database.
func TestStore_Postgres(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	require.NoError(t, Migrate(dsn, false))
	require.NoError(t, Migrate(dsn, true))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer s.Close()

	email := fmt.Sprintf("ann+%d@x.com", time.Now().UnixNano())
	ann := &customer.Customer{Name: "Ann", Email: email}
	require.NoError(t, s.Do(ctx, func(tx store.Tx) error { return tx.CreateCustomer(ctx, ann) }))
	require.NotZero(t, ann.ID)

	err = s.Do(ctx, func(tx store.Tx) error {
		return tx.CreateCustomer(ctx, &customer.Customer{Name: "Dup", Email: email})
	})
	var conflict *apperr.ConflictError
	require.True(t, errors.As(err, &conflict), "got %v", err)

	o := &order.Order{OrderNumber: 7, TotalCents: 500, CustomerID: ann.ID}
	require.NoError(t, s.Do(ctx, func(tx store.Tx) error { return tx.CreateOrder(ctx, o) }))

	err = s.Do(ctx, func(tx store.Tx) error {
		return tx.CreateOrder(ctx, &order.Order{OrderNumber: 8, TotalCents: 500, CustomerID: ann.ID + 1000})
	})
	var nf *apperr.NotFoundError
	require.True(t, errors.As(err, &nf), "got %v", err)

	require.NoError(t, s.Do(ctx, func(tx store.Tx) error { return tx.DeleteCustomer(ctx, ann.ID) }))
	err = s.Do(ctx, func(tx store.Tx) error {
		_, err := tx.GetOrder(ctx, o.ID)
		return err
	})
	require.True(t, errors.As(err, &nf), "order should be gone with its customer, got %v", err)
}
