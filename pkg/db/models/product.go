package models

import "time"

// Product represents a catalog listing. Price is in minor currency units and
// is effectively frozen once a committed order references the product: order
// totals are recomputed from this row, so mutating a referenced price would
// rewrite history (guarded in the catalog service).
type Product struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string    `gorm:"column:title;not null;uniqueIndex"`
	Description string    `gorm:"column:description;not null"`
	Price       int64     `gorm:"column:price;not null"`
	Image       string    `gorm:"column:image;not null"`
	CategoryID  int64     `gorm:"column:category_id;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
