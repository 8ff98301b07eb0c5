package models

import (
	"time"
)

// Order status values. Orders move forward one step at a time;
// cancellation short-circuits from any non-terminal status.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderServed    = "served"
	OrderPaid      = "paid"
	OrderCancelled = "cancelled"
)

// Payment status values, independent from the fulfillment status.
const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

type Order struct {
	ID                  uint        `gorm:"primaryKey" json:"id"`
	OrderCode           string      `gorm:"type:varchar(30);not null;uniqueIndex" json:"order_code"`
	TableID             *uint       `gorm:"index" json:"table_id"`
	Table               *Table      `gorm:"foreignKey:TableID" json:"table,omitempty"`
	Status              string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus       string      `gorm:"type:varchar(20);not null;default:'unpaid'" json:"payment_status"`
	PaymentMethod       string      `gorm:"type:varchar(20)" json:"payment_method,omitempty"`
	TotalAmount         float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	DiscountAmount      float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"discount_amount"`
	FinalAmount         float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"final_amount"`
	CustomerName        string      `gorm:"type:varchar(100)" json:"customer_name,omitempty"`
	SpecialInstructions string      `gorm:"type:text" json:"special_instructions"`
	Items               []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt           time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time   `gorm:"not null" json:"updated_at"`
	ConfirmedAt         *time.Time  `json:"confirmed_at,omitempty"`
	CompletedAt         *time.Time  `json:"completed_at,omitempty"`
	PaidAt              *time.Time  `json:"paid_at,omitempty"`
}

// next step on the forward path
var orderFlow = map[string]string{
	OrderPending:   OrderConfirmed,
	OrderConfirmed: OrderPreparing,
	OrderPreparing: OrderReady,
	OrderReady:     OrderServed,
	OrderServed:    OrderPaid,
}

func IsOrderStatus(s string) bool {
	if s == OrderPaid || s == OrderCancelled {
		return true
	}
	_, ok := orderFlow[s]
	return ok
}

func IsTerminalOrderStatus(s string) bool {
	return s == OrderPaid || s == OrderCancelled
}

// CanTransitionOrder reports whether an order may move from one status to
// the next. Only the single next forward step is allowed, plus cancellation
// from any non-terminal status. Terminal statuses never transition.
func CanTransitionOrder(from, to string) bool {
	if IsTerminalOrderStatus(from) {
		return false
	}
	if to == OrderCancelled {
		return true
	}
	return orderFlow[from] == to
}

func IsPaymentStatus(s string) bool {
	return s == PaymentUnpaid || s == PaymentPaid || s == PaymentRefunded
}

// CanTransitionPayment follows unpaid -> paid -> refunded. Re-setting the
// current value is allowed so repeated updates stay idempotent.
func CanTransitionPayment(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case PaymentUnpaid:
		return to == PaymentPaid
	case PaymentPaid:
		return to == PaymentRefunded
	}
	return false
}
