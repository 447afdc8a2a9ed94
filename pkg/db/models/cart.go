package models

import "time"

// Cart is a user's in-progress order. While IsOrder is false the cart is open
// and mutable; committing flips IsOrder to true, fills Name/Address, and the
// same row becomes an immutable order.
//
// A partial unique index (uq_carts_open_user, see migrations) guarantees at
// most one open cart per user even under concurrent first access.
type Cart struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null"`
	IsOrder   bool      `gorm:"column:is_order;not null;default:false"`
	Name      *string   `gorm:"column:name"`
	Address   *string   `gorm:"column:address"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the historical table name.
func (Cart) TableName() string {
	return "carts"
}
