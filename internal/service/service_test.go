package service_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/customer-orders/internal/apperr"
	"github.com/MikeMC777/customer-orders/internal/customer"
	"github.com/MikeMC777/customer-orders/internal/order"
	"github.com/MikeMC777/customer-orders/internal/service"
	"github.com/MikeMC777/customer-orders/internal/store"
	"github.com/MikeMC777/customer-orders/internal/store/sqlitestore"
)

func newService(t *testing.T) *service.Service {
	t.Helper()
	s, err := sqlitestore.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { _ = s.Close() })
	return service.New(s)
}

func year(y int) *int { return &y }

func patch(t *testing.T, body string) *customer.PatchCustomerRequest {
	t.Helper()
	var p customer.PatchCustomerRequest
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return &p
}

func mustCreate(t *testing.T, svc *service.Service, name, email string) *customer.Customer {
	t.Helper()
	c, err := svc.CreateCustomer(context.Background(), customer.CreateCustomerRequest{
		Name: name, Email: email, CustomerSince: year(2020),
	})
	require.NoError(t, err)
	return c
}

func requireNotFound(t *testing.T, err error, msg string) {
	t.Helper()
	var nf *apperr.NotFoundError
	require.True(t, errors.As(err, &nf), "want not found, got %v", err)
	assert.Equal(t, msg, nf.Error())
}

func requireInvalid(t *testing.T, err error, field string) {
	t.Helper()
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr), "want validation error, got %v", err)
	var fields []string
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.Contains(t, fields, field)
}

func TestCreateCustomer(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	c := mustCreate(t, svc, "Ann", "ann@x.com")
	assert.NotZero(t, c.ID)

	got, err := svc.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestCreateCustomer_Invalid(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		in    customer.CreateCustomerRequest
		field string
	}{
		{"missing name", customer.CreateCustomerRequest{Email: "a@x.com"}, "name"},
		{"long name", customer.CreateCustomerRequest{Name: string(make([]byte, 101)), Email: "a@x.com"}, "name"},
		{"bad email", customer.CreateCustomerRequest{Name: "Ann", Email: "not-an-email"}, "email"},
		{"year too early", customer.CreateCustomerRequest{Name: "Ann", Email: "a@x.com", CustomerSince: year(1999)}, "customer_since"},
		{"year too late", customer.CreateCustomerRequest{Name: "Ann", Email: "a@x.com", CustomerSince: year(2101)}, "customer_since"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateCustomer(ctx, tc.in)
			requireInvalid(t, err, tc.field)
		})
	}

	list, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateCustomer_DuplicateEmail(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	mustCreate(t, svc, "Ann", "ann@x.com")

	_, err := svc.CreateCustomer(ctx, customer.CreateCustomerRequest{Name: "Other", Email: "ann@x.com"})

	var conflict *apperr.ConflictError
	require.True(t, errors.As(err, &conflict), "got %v", err)
	assert.Equal(t, store.MsgEmailExists, conflict.Reason)
	list, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReplaceCustomer_OverwritesEveryField(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	c := mustCreate(t, svc, "Ann", "ann@x.com")

	out, err := svc.ReplaceCustomer(ctx, c.ID, customer.ReplaceCustomerRequest{
		Name: "Anna", Email: "anna@x.com", CustomerSince: year(2024),
	})
	require.NoError(t, err)
	assert.Equal(t, c.ID, out.ID)
	assert.Equal(t, "Anna", out.Name)
	assert.Equal(t, "anna@x.com", out.Email)
	require.NotNil(t, out.CustomerSince)
	assert.Equal(t, 2024, *out.CustomerSince)

	got, err := svc.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, out, got)
}

func TestReplaceCustomer_RequiresEveryField(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	c := mustCreate(t, svc, "Ann", "ann@x.com")

	_, err := svc.ReplaceCustomer(ctx, c.ID, customer.ReplaceCustomerRequest{Name: "Anna", Email: "anna@x.com"})
	requireInvalid(t, err, "customer_since")

	_, err = svc.ReplaceCustomer(ctx, c.ID, customer.ReplaceCustomerRequest{Email: "anna@x.com", CustomerSince: year(2024)})
	requireInvalid(t, err, "name")

	got, err := svc.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestReplaceCustomer_Missing(t *testing.T) {
	svc := newService(t)
	_, err := svc.ReplaceCustomer(context.Background(), 9, customer.ReplaceCustomerRequest{
		Name: "Ann", Email: "ann@x.com", CustomerSince: year(2020),
	})
	requireNotFound(t, err, store.MsgCustomerNotFound)
}

func TestPatchCustomer_OnlyPresentFieldsChange(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	c := mustCreate(t, svc, "Ann", "ann@x.com")

	out, err := svc.PatchCustomer(ctx, c.ID, patch(t, `{"name":"Anna"}`))
	require.NoError(t, err)
	assert.Equal(t, "Anna", out.Name)
	assert.Equal(t, "ann@x.com", out.Email)
	require.NotNil(t, out.CustomerSince)
	assert.Equal(t, 2020, *out.CustomerSince)
}

func TestPatchCustomer_EmptyIsNoop(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	c := mustCreate(t, svc, "Ann", "ann@x.com")

	out, err := svc.PatchCustomer(ctx, c.ID, patch(t, `{}`))
	require.NoError(t, err)
	assert.Equal(t, c, out)
}

func TestPatchCustomer_IgnoresID(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	c := mustCreate(t, svc, "Ann", "ann@x.com")

	out, err := svc.PatchCustomer(ctx, c.ID, patch(t, `{"id":999,"email":"new@x.com"}`))
	require.NoError(t, err)
	assert.Equal(t, c.ID, out.ID)
	assert.Equal(t, "new@x.com", out.Email)
}

func TestPatchCustomer_ClearsCustomerSince(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	c := mustCreate(t, svc, "Ann", "ann@x.com")

	_, err := svc.PatchCustomer(ctx, c.ID, patch(t, `{"customer_since":null}`))
	require.NoError(t, err)

	got, err := svc.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CustomerSince)
}

func TestPatchCustomer_Rejected(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	c := mustCreate(t, svc, "Ann", "ann@x.com")
	mustCreate(t, svc, "Bob", "bob@x.com")

	_, err := svc.PatchCustomer(ctx, c.ID, patch(t, `{"name":null}`))
	requireInvalid(t, err, "name")

	_, err = svc.PatchCustomer(ctx, c.ID, patch(t, `{"email":"nope"}`))
	requireInvalid(t, err, "email")

	_, err = svc.PatchCustomer(ctx, c.ID, patch(t, `{"email":"bob@x.com"}`))
	var conflict *apperr.ConflictError
	require.True(t, errors.As(err, &conflict), "got %v", err)

	_, err = svc.PatchCustomer(ctx, 999, patch(t, `{"name":"X"}`))
	requireNotFound(t, err, store.MsgCustomerNotFound)

	got, err := svc.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestCreateOrder(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	c := mustCreate(t, svc, "Ann", "ann@x.com")

	o, err := svc.CreateOrder(ctx, order.CreateOrderRequest{OrderNumber: 7, TotalCents: 500, CustomerID: c.ID})
	require.NoError(t, err)
	assert.NotZero(t, o.ID)
	assert.Equal(t, "5.00", o.Total())

	got, err := svc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o, got)
}

func TestCreateOrder_UnknownCustomer(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, order.CreateOrderRequest{OrderNumber: 7, TotalCents: 500, CustomerID: 42})
	requireNotFound(t, err, store.MsgOrderCustomer)

	// the owner is resolved before the remaining fields are checked
	_, err = svc.CreateOrder(ctx, order.CreateOrderRequest{OrderNumber: 1000, TotalCents: 500, CustomerID: 42})
	requireNotFound(t, err, store.MsgOrderCustomer)

	list, err := svc.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateOrder_Invalid(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	c := mustCreate(t, svc, "Ann", "ann@x.com")

	cases := []struct {
		name  string
		in    order.CreateOrderRequest
		field string
	}{
		{"missing customer", order.CreateOrderRequest{OrderNumber: 7, TotalCents: 500}, "customer_id"},
		{"number too small", order.CreateOrderRequest{OrderNumber: 2, TotalCents: 500, CustomerID: c.ID}, "order_number"},
		{"number too large", order.CreateOrderRequest{OrderNumber: 21, TotalCents: 500, CustomerID: c.ID}, "order_number"},
		{"zero total", order.CreateOrderRequest{OrderNumber: 7, CustomerID: c.ID}, "total_cents"},
		{"total too large", order.CreateOrderRequest{OrderNumber: 7, TotalCents: 1000001, CustomerID: c.ID}, "total_cents"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateOrder(ctx, tc.in)
			requireInvalid(t, err, tc.field)
		})
	}
}

func TestCreateOrder_DuplicateNumber(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	c := mustCreate(t, svc, "Ann", "ann@x.com")
	_, err := svc.CreateOrder(ctx, order.CreateOrderRequest{OrderNumber: 7, TotalCents: 500, CustomerID: c.ID})
	require.NoError(t, err)

	_, err = svc.CreateOrder(ctx, order.CreateOrderRequest{OrderNumber: 7, TotalCents: 900, CustomerID: c.ID})

	var conflict *apperr.ConflictError
	require.True(t, errors.As(err, &conflict), "got %v", err)
	assert.Equal(t, store.MsgOrderNumberExists, conflict.Reason)
}

func TestDeleteCustomer_RemovesOrders(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	c := mustCreate(t, svc, "Ann", "ann@x.com")
	o, err := svc.CreateOrder(ctx, order.CreateOrderRequest{OrderNumber: 7, TotalCents: 500, CustomerID: c.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCustomer(ctx, c.ID))

	_, err = svc.GetCustomer(ctx, c.ID)
	requireNotFound(t, err, store.MsgCustomerNotFound)
	_, err = svc.GetOrder(ctx, o.ID)
	requireNotFound(t, err, store.MsgOrderNotFound)

	err = svc.DeleteCustomer(ctx, c.ID)
	requireNotFound(t, err, store.MsgCustomerNotFound)
}

func TestPing(t *testing.T) {
	assert.NoError(t, newService(t).Ping(context.Background()))
}
