package cart

import (
	"context"

	"github.com/arnarg/webshop-backend/internal/repo"
	"github.com/arnarg/webshop-backend/pkg/db/models"
	"github.com/arnarg/webshop-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository exposes cart and cart-line persistence operations. Committed
// orders share the carts table, so the orders module reads through this repo
// as well.
type Repository struct {
	repo.Base
}

// NewRepository constructs a cart repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// FindOpenCartByUser loads the user's single open cart.
func (r *Repository) FindOpenCartByUser(ctx context.Context, userID int64) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB(ctx).Where("user_id = ? AND NOT is_order", userID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// CreateOpenCart inserts a fresh open cart for the user. The partial unique
// index uq_carts_open_user rejects a second open cart.
func (r *Repository) CreateOpenCart(ctx context.Context, userID int64) (*models.Cart, error) {
	cart := &models.Cart{UserID: userID}
	if err := r.DB(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// FindCartByID loads any cart row, open or committed.
func (r *Repository) FindCartByID(ctx context.Context, id int64) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB(ctx).First(&cart, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindOpenCartByID loads a cart only while it is still open.
func (r *Repository) FindOpenCartByID(ctx context.Context, id int64) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB(ctx).Where("id = ? AND NOT is_order", id).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// ListLines returns a page of the cart's lines, oldest first.
func (r *Repository) ListLines(ctx context.Context, cartID int64, page pagination.Window) ([]models.CartLine, error) {
	var out []models.CartLine
	query := r.DB(ctx).Model(&models.CartLine{}).Where("cart_id = ?", cartID).Order("id ASC")
	if err := page.Scope(query).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// TotalPrice computes SUM(price * amount) over every line of the cart in one
// aggregate query. Empty carts total zero.
func (r *Repository) TotalPrice(ctx context.Context, cartID int64) (int64, error) {
	var total int64
	err := r.DB(ctx).
		Model(&models.CartLine{}).
		Select("COALESCE(SUM(products.price * cart_lines.amount), 0)").
		Joins("JOIN products ON products.id = cart_lines.product_id").
		Where("cart_lines.cart_id = ?", cartID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// CreateLine inserts a new cart line. The composite unique index
// uq_cart_lines_cart_product rejects a second line for the same product.
func (r *Repository) CreateLine(ctx context.Context, line *models.CartLine) (*models.CartLine, error) {
	if err := r.DB(ctx).Create(line).Error; err != nil {
		return nil, err
	}
	return line, nil
}

// FindLineByID loads a line by id regardless of owner.
func (r *Repository) FindLineByID(ctx context.Context, id int64) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.DB(ctx).First(&line, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// LineExists reports whether the cart already holds a line for the product.
func (r *Repository) LineExists(ctx context.Context, cartID, productID int64) (bool, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.CartLine{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateLineAmount updates only the amount column and returns the row.
func (r *Repository) UpdateLineAmount(ctx context.Context, id, amount int64) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.ConditionalUpdate(ctx, &line, id, []string{"amount"}, []any{amount}); err != nil {
		return nil, err
	}
	return &line, nil
}

// DeleteLine removes a line. Reports gorm.ErrRecordNotFound when the row does
// not exist.
func (r *Repository) DeleteLine(ctx context.Context, id int64) error {
	result := r.DB(ctx).Delete(&models.CartLine{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Commit flips an open cart into a committed order, stamping the shipping
// name and address. The open-cart predicate makes the transition one-way;
// zero affected rows means the cart was missing or already committed.
func (r *Repository) Commit(ctx context.Context, cartID int64, name, address string) (*models.Cart, error) {
	result := r.DB(ctx).
		Model(&models.Cart{}).
		Where("id = ? AND NOT is_order", cartID).
		Updates(map[string]any{
			"is_order": true,
			"name":     name,
			"address":  address,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var cart models.Cart
	if err := r.DB(ctx).First(&cart, "id = ?", cartID).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindOrderByID loads a cart row only once it is committed.
func (r *Repository) FindOrderByID(ctx context.Context, id int64) (*models.Cart, error) {
	var order models.Cart
	if err := r.DB(ctx).Where("id = ? AND is_order", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns a page of committed orders, oldest first. A zero userID
// lists every user's orders.
func (r *Repository) ListOrders(ctx context.Context, userID int64, page pagination.Window) ([]models.Cart, error) {
	query := r.DB(ctx).Model(&models.Cart{}).Where("is_order")
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}

	var out []models.Cart
	if err := page.Scope(query.Order("created_at ASC, id ASC")).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
