package catalog

import (
	"context"

	"github.com/arnarg/webshop-backend/internal/repo"
	"github.com/arnarg/webshop-backend/pkg/db/models"
	"github.com/arnarg/webshop-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes product and category persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateProduct inserts a new product and returns the persisted model.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindProductByID loads a product by id.
func (r *Repository) FindProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns a page of products, newest last, optionally narrowed
// by category and a title/description search. The search term is always bound
// as a parameter.
func (r *Repository) ListProducts(ctx context.Context, page pagination.Window, filter ProductFilter) ([]models.Product, error) {
	query := r.DB(ctx).Model(&models.Product{})
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var out []models.Product
	if err := page.Scope(query.Order("created_at ASC, id ASC")).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProduct partially updates the supplied columns and returns the row.
func (r *Repository) UpdateProduct(ctx context.Context, id int64, fields []string, values []any) (*models.Product, error) {
	var product models.Product
	if err := r.ConditionalUpdate(ctx, &product, id, fields, values); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product. Reports gorm.ErrRecordNotFound when the
// row does not exist.
func (r *Repository) DeleteProduct(ctx context.Context, id int64) error {
	result := r.DB(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ProductPriceFrozen reports whether the product appears on any committed
// order line.
func (r *Repository) ProductPriceFrozen(ctx context.Context, productID int64) (bool, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.CartLine{}).
		Joins("JOIN carts ON carts.id = cart_lines.cart_id").
		Where("cart_lines.product_id = ? AND carts.is_order", productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateCategory inserts a new category.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.DB(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// FindCategoryByID loads a category by id.
func (r *Repository) FindCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	if err := r.DB(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns a page of categories ordered by id.
func (r *Repository) ListCategories(ctx context.Context, page pagination.Window) ([]models.Category, error) {
	var out []models.Category
	query := r.DB(ctx).Model(&models.Category{}).Order("id ASC")
	if err := page.Scope(query).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateCategory renames a category and returns the row.
func (r *Repository) UpdateCategory(ctx context.Context, id int64, title string) (*models.Category, error) {
	var category models.Category
	if err := r.ConditionalUpdate(ctx, &category, id, []string{"title"}, []any{title}); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category. Products under it are removed by the
// schema's cascade.
func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	result := r.DB(ctx).Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
