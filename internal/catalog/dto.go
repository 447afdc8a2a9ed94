package catalog

import (
	"time"

	"github.com/arnarg/webshop-backend/pkg/db/models"
)

// ProductDTO is the transport shape for catalog products. Price is in the
// store currency's minor units.
type ProductDTO struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Image       string    `json:"image"`
	CategoryID  int64     `json:"category"`
	CreatedAt   time.Time `json:"created"`
}

// CategoryDTO is the transport shape for categories.
type CategoryDTO struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created"`
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID *int64
	Search     string
}

// CreateProductRequest carries the fields for a new product. The image is
// uploaded separately as multipart content.
type CreateProductRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	CategoryID  int64  `json:"category"`
}

// UpdateProductRequest carries a partial product update. Nil fields are left
// untouched.
type UpdateProductRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	CategoryID  *int64  `json:"category"`
}

func ProductFromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
	}
}

func CategoryFromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
	}
}
