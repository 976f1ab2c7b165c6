package sqlitestore

import (
	"context"

	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MikeMC777/customer-orders/internal/apperr"
	"github.com/MikeMC777/customer-orders/internal/customer"
	"github.com/MikeMC777/customer-orders/internal/order"
	"github.com/MikeMC777/customer-orders/internal/store"
)

type customerRow struct {
	ID            int64  `gorm:"primaryKey"`
	Name          string `gorm:"size:100;not null"`
	Email         string `gorm:"size:255;not null;uniqueIndex"`
	CustomerSince *int   `gorm:"index"`
}

func (customerRow) TableName() string { return "customers" }

type orderRow struct {
	ID          int64        `gorm:"primaryKey"`
	OrderNumber int          `gorm:"not null;uniqueIndex"`
	TotalCents  int          `gorm:"not null"`
	CustomerID  int64        `gorm:"not null;index"`
	Customer    *customerRow `gorm:"constraint:OnDelete:CASCADE"`
}

func (orderRow) TableName() string { return "orders" }

func (r customerRow) customer() customer.Customer {
	return customer.Customer{ID: r.ID, Name: r.Name, Email: r.Email, CustomerSince: r.CustomerSince}
}

func (r orderRow) order() order.Order {
	return order.Order{ID: r.ID, OrderNumber: r.OrderNumber, TotalCents: r.TotalCents, CustomerID: r.CustomerID}
}

type gormTx struct{ db *gorm.DB }

func (t *gormTx) CreateCustomer(ctx context.Context, c *customer.Customer) error {
	row := customerRow{Name: c.Name, Email: c.Email, CustomerSince: c.CustomerSince}
	if err := t.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translate(err, store.MsgEmailExists, "insert customer")
	}
	c.ID = row.ID
	return nil
}

func (t *gormTx) GetCustomer(ctx context.Context, id int64) (*customer.Customer, error) {
	var row customerRow
	err := t.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.CustomerNotFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "select customer")
	}
	c := row.customer()
	return &c, nil
}

func (t *gormTx) ListCustomers(ctx context.Context) ([]customer.Customer, error) {
	var rows []customerRow
	if err := t.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	out := make([]customer.Customer, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.customer())
	}
	return out, nil
}

func (t *gormTx) UpdateCustomer(ctx context.Context, c *customer.Customer) error {
	res := t.db.WithContext(ctx).Model(&customerRow{}).Where("id = ?", c.ID).Updates(map[string]any{
		"name":           c.Name,
		"email":          c.Email,
		"customer_since": c.CustomerSince,
	})
	if res.Error != nil {
		return translate(res.Error, store.MsgEmailExists, "update customer")
	}
	if res.RowsAffected == 0 {
		return store.CustomerNotFound(c.ID)
	}
	return nil
}

func (t *gormTx) DeleteCustomer(ctx context.Context, id int64) error {
	res := t.db.WithContext(ctx).Delete(&customerRow{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete customer")
	}
	if res.RowsAffected == 0 {
		return store.CustomerNotFound(id)
	}
	return nil
}

func (t *gormTx) CreateOrder(ctx context.Context, o *order.Order) error {
	row := orderRow{OrderNumber: o.OrderNumber, TotalCents: o.TotalCents, CustomerID: o.CustomerID}
	err := t.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error
	if isForeignKey(err) {
		return store.OrderCustomerNotFound(o.CustomerID)
	}
	if err != nil {
		return translate(err, store.MsgOrderNumberExists, "insert order")
	}
	o.ID = row.ID
	return nil
}

func (t *gormTx) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	var row orderRow
	err := t.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.OrderNotFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "select order")
	}
	o := row.order()
	return &o, nil
}

func (t *gormTx) ListOrders(ctx context.Context) ([]order.Order, error) {
	var rows []orderRow
	if err := t.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	out := make([]order.Order, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.order())
	}
	return out, nil
}

// translate reports unique violations as a conflict with reason and wraps
// anything else.
func translate(err error, reason, op string) error {
	if isUnique(err) {
		return apperr.Conflict(reason)
	}
	return errors.Wrap(err, op)
}

func isUnique(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var se sqlite3.Error
	return errors.As(err, &se) &&
		(se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
}

func isForeignKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintForeignKey
}
