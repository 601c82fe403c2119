package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the per-user shopping cart; at most one row exists per user.
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user"`
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-" validate:"-"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TotalQuantity sums the quantities of the loaded items.
func (c *Cart) TotalQuantity() int64 {
	var total int64
	for _, item := range c.Items {
		total += int64(item.Quantity)
	}
	return total
}

// TotalPrice sums quantity * price over the loaded items. Items must be
// loaded with their Product.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}
