package repository

import (
	"errors"

	"brewmenu/models"
)

var (
	// ErrNotFound marks a lookup for a row that does not exist, so callers
	// can tell a stale reference from a transport failure.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateOrderCode is returned when an insert trips the unique
	// index on orders.order_code. The submission service treats it as
	// retryable.
	ErrDuplicateOrderCode = errors.New("duplicate order code")
)

// OrderRepository is the durable store for orders and their items.
type OrderRepository interface {
	Create(order *models.Order) error
	CreateItems(items []models.OrderItem) error
	// Delete removes the row outright. Only used as the compensating
	// action when item insertion fails; cancellation goes through Update.
	Delete(id uint) error
	Get(id uint) (*models.Order, error)
	List() ([]models.Order, error)
	CountByCodePrefix(prefix string) (int64, error)
	Update(order *models.Order) error
	UpdateItem(item *models.OrderItem) error
}

// TableRepository tracks table occupancy. Writes are last-write-wins; the
// floor staff override and the order lifecycle both go through here.
type TableRepository interface {
	Get(id uint) (*models.Table, error)
	List() ([]models.Table, error)
	UpdateStatus(id uint, status string) error
}
