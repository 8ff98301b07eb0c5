package models

import (
	"time"
)

// Item status values. Per-line fulfillment, finer grained than the order
// level status.
const (
	ItemPending = "pending"
	ItemCooking = "cooking"
	ItemReady   = "ready"
	ItemServed  = "served"
)

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order          *Order    `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductID      uint      `gorm:"not null" json:"product_id"`
	ProductName    string    `gorm:"type:varchar(100);not null" json:"product_name"`
	ProductNameEn  string    `gorm:"type:varchar(100)" json:"product_name_en,omitempty"`
	PriceAtTime    float64   `gorm:"type:decimal(10,2);not null" json:"price_at_time"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	Notes          string    `gorm:"type:text" json:"notes"`
	Customizations string    `gorm:"type:text" json:"customizations"`
	Status         string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

var itemRank = map[string]int{
	ItemPending: 0,
	ItemCooking: 1,
	ItemReady:   2,
	ItemServed:  3,
}

func IsItemStatus(s string) bool {
	_, ok := itemRank[s]
	return ok
}

// CanTransitionItem allows one forward step at a time.
func CanTransitionItem(from, to string) bool {
	fr, ok := itemRank[from]
	if !ok {
		return false
	}
	tr, ok := itemRank[to]
	if !ok {
		return false
	}
	return tr == fr+1
}

// ItemAtLeast reports whether status a has reached status b on the item
// fulfillment path.
func ItemAtLeast(a, b string) bool {
	ra, ok := itemRank[a]
	if !ok {
		return false
	}
	return ra >= itemRank[b]
}
