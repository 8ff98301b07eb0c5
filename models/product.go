package models

import "time"

// Product is the catalog row order items snapshot from. Catalog management
// lives in the back office; this service only reads prices at submission.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	NameEn      string    `gorm:"type:varchar(100)" json:"name_en,omitempty"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string    `gorm:"type:varchar(255)" json:"image_url,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsAvailable bool      `gorm:"not null;default:true" json:"is_available"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
