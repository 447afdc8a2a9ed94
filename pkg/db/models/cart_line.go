package models

import "time"

// CartLine is one (product, quantity) pairing in a cart or committed order.
// uq_cart_lines_cart_product (see migrations) enforces at most one line per
// product within a cart; adding the same product twice is a conflict, not a
// quantity merge.
type CartLine struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CartID    int64     `gorm:"column:cart_id;not null"`
	ProductID int64     `gorm:"column:product_id;not null"`
	Amount    int64     `gorm:"column:amount;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
