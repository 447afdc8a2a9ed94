package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/arnarg/webshop-backend/pkg/db"
	"github.com/arnarg/webshop-backend/pkg/db/models"
	pkgerrors "github.com/arnarg/webshop-backend/pkg/errors"
	"github.com/arnarg/webshop-backend/pkg/pagination"
	"github.com/arnarg/webshop-backend/pkg/storage/local"
	"gorm.io/gorm"
)

const titleMaxLen = 255

// Service defines the behavior needed by the catalog controllers.
type Service interface {
	ListProducts(ctx context.Context, page pagination.Window, filter ProductFilter) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id int64) (*ProductDTO, error)
	CreateProduct(ctx context.Context, req CreateProductRequest, image io.Reader) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest, image io.Reader) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id int64) error

	ListCategories(ctx context.Context, page pagination.Window) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, title string) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, id int64, title string) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type catalogRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	FindProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, page pagination.Window, filter ProductFilter) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id int64, fields []string, values []any) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ProductPriceFrozen(ctx context.Context, productID int64) (bool, error)

	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	FindCategoryByID(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context, page pagination.Window) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id int64, title string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type imageStore interface {
	Save(ctx context.Context, r io.Reader) (string, error)
	Remove(ctx context.Context, publicURL string) error
}

type service struct {
	repo   catalogRepository
	images imageStore
}

// NewService constructs a catalog service with the provided dependencies.
func NewService(repo catalogRepository, images imageStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	if images == nil {
		return nil, fmt.Errorf("image store is required")
	}
	return &service{repo: repo, images: images}, nil
}

func (s *service) ListProducts(ctx context.Context, page pagination.Window, filter ProductFilter) ([]ProductDTO, error) {
	rows, err := s.repo.ListProducts(ctx, page, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *ProductFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) GetProduct(ctx context.Context, id int64) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return ProductFromModel(product), nil
}

func (s *service) CreateProduct(ctx context.Context, req CreateProductRequest, image io.Reader) (*ProductDTO, error) {
	fields := validateProductFields(&req.Title, &req.Price)
	if image == nil {
		fields = append(fields, pkgerrors.FieldError{Field: "image", Message: "image is required"})
	}
	if len(fields) > 0 {
		return nil, pkgerrors.Validation(fields)
	}

	if _, err := s.repo.FindCategoryByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
	}

	imageURL, err := s.storeImage(ctx, image)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.CreateProduct(ctx, &models.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Image:       imageURL,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		// best effort: the image is orphaned otherwise
		_ = s.images.Remove(ctx, imageURL)
		if db.IsUniqueViolation(err, "uq_products_title") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product title already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return ProductFromModel(product), nil
}

// UpdateProduct applies a partial update. Price changes are rejected once the
// product appears on a committed order, keeping historical totals stable.
func (s *service) UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest, image io.Reader) (*ProductDTO, error) {
	if fields := validateProductFields(req.Title, req.Price); len(fields) > 0 {
		return nil, pkgerrors.Validation(fields)
	}

	if req.CategoryID != nil {
		if _, err := s.repo.FindCategoryByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load category")
		}
	}

	if req.Price != nil {
		frozen, err := s.repo.ProductPriceFrozen(ctx, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check committed orders")
		}
		if frozen {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "price is frozen by committed orders")
		}
	}

	var imageVal any
	if image != nil {
		imageURL, err := s.storeImage(ctx, image)
		if err != nil {
			return nil, err
		}
		imageVal = imageURL
	}

	fields := []string{"title", "description", "price", "category_id", "image"}
	values := []any{
		deref(req.Title),
		deref(req.Description),
		deref(req.Price),
		deref(req.CategoryID),
		imageVal,
	}

	product, err := s.repo.UpdateProduct(ctx, id, fields, values)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		case db.IsUniqueViolation(err, "uq_products_title"):
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product title already exists")
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
		}
	}
	return ProductFromModel(product), nil
}

func (s *service) DeleteProduct(ctx context.Context, id int64) error {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}

	_ = s.images.Remove(ctx, product.Image)
	return nil
}

func (s *service) ListCategories(ctx context.Context, page pagination.Window) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *CategoryFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateCategory(ctx context.Context, title string) (*CategoryDTO, error) {
	if fields := validateCategoryTitle(title); len(fields) > 0 {
		return nil, pkgerrors.Validation(fields)
	}

	category, err := s.repo.CreateCategory(ctx, &models.Category{Title: title})
	if err != nil {
		if db.IsUniqueViolation(err, "uq_categories_title") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category title already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	return CategoryFromModel(category), nil
}

func (s *service) UpdateCategory(ctx context.Context, id int64, title string) (*CategoryDTO, error) {
	if fields := validateCategoryTitle(title); len(fields) > 0 {
		return nil, pkgerrors.Validation(fields)
	}

	category, err := s.repo.UpdateCategory(ctx, id, title)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		case db.IsUniqueViolation(err, "uq_categories_title"):
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category title already exists")
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
		}
	}
	return CategoryFromModel(category), nil
}

func (s *service) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	return nil
}

func (s *service) storeImage(ctx context.Context, image io.Reader) (string, error) {
	url, err := s.images.Save(ctx, image)
	if err != nil {
		switch {
		case errors.Is(err, local.ErrUnsupportedType):
			return "", pkgerrors.Validation([]pkgerrors.FieldError{
				{Field: "image", Message: "image must be jpeg, png, gif or webp"},
			})
		case errors.Is(err, local.ErrTooLarge):
			return "", pkgerrors.Validation([]pkgerrors.FieldError{
				{Field: "image", Message: "image exceeds the upload size limit"},
			})
		default:
			return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store image")
		}
	}
	return url, nil
}

// validateProductFields checks the optional title and price pointers,
// collecting every violation.
func validateProductFields(title *string, price *int64) []pkgerrors.FieldError {
	var fields []pkgerrors.FieldError
	if title != nil && (len(*title) == 0 || len(*title) > titleMaxLen) {
		fields = append(fields, pkgerrors.FieldError{
			Field:   "title",
			Message: "title must be between 1 and 255 characters",
		})
	}
	if price != nil && *price < 0 {
		fields = append(fields, pkgerrors.FieldError{
			Field:   "price",
			Message: "price must be a non-negative integer",
		})
	}
	return fields
}

func validateCategoryTitle(title string) []pkgerrors.FieldError {
	if len(title) == 0 || len(title) > titleMaxLen {
		return []pkgerrors.FieldError{{
			Field:   "title",
			Message: "title must be between 1 and 255 characters",
		}}
	}
	return nil
}

// deref boxes the pointee, or leaves an untyped nil so partial updates skip
// the column.
func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
