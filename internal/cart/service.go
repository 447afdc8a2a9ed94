package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/arnarg/webshop-backend/pkg/db"
	"github.com/arnarg/webshop-backend/pkg/db/models"
	pkgerrors "github.com/arnarg/webshop-backend/pkg/errors"
	"github.com/arnarg/webshop-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the cart controller. Every user has
// at most one open cart, created lazily on first touch.
type Service interface {
	GetCart(ctx context.Context, userID int64, page pagination.Window) (*CartDetail, error)
	AddLine(ctx context.Context, userID, productID, amount int64) (*LineDTO, error)
	GetLine(ctx context.Context, userID, lineID int64) (*LineDTO, error)
	UpdateLine(ctx context.Context, userID, lineID, amount int64) (*LineDTO, error)
	DeleteLine(ctx context.Context, userID, lineID int64) error
}

type cartRepository interface {
	FindOpenCartByUser(ctx context.Context, userID int64) (*models.Cart, error)
	CreateOpenCart(ctx context.Context, userID int64) (*models.Cart, error)
	FindCartByID(ctx context.Context, id int64) (*models.Cart, error)
	ListLines(ctx context.Context, cartID int64, page pagination.Window) ([]models.CartLine, error)
	TotalPrice(ctx context.Context, cartID int64) (int64, error)
	CreateLine(ctx context.Context, line *models.CartLine) (*models.CartLine, error)
	FindLineByID(ctx context.Context, id int64) (*models.CartLine, error)
	LineExists(ctx context.Context, cartID, productID int64) (bool, error)
	UpdateLineAmount(ctx context.Context, id, amount int64) (*models.CartLine, error)
	DeleteLine(ctx context.Context, id int64) error
}

type productLookup interface {
	FindProductByID(ctx context.Context, id int64) (*models.Product, error)
}

type service struct {
	repo     cartRepository
	products productLookup
}

// NewService constructs a cart service with the provided dependencies.
func NewService(repo cartRepository, products productLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lookup is required")
	}
	return &service{repo: repo, products: products}, nil
}

// GetCart returns the caller's open cart with a page of lines and the total
// over all lines. The cart is created on first access.
func (s *service) GetCart(ctx context.Context, userID int64, page pagination.Window) (*CartDetail, error) {
	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.ListLines(ctx, cart.ID, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart lines")
	}
	total, err := s.repo.TotalPrice(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute cart total")
	}

	return &CartDetail{
		Cart:       *CartFromModel(cart),
		Lines:      linesFromModels(lines),
		TotalPrice: total,
	}, nil
}

// AddLine places a product into the caller's open cart. A product already in
// the cart is a conflict; amounts are never merged.
func (s *service) AddLine(ctx context.Context, userID, productID, amount int64) (*LineDTO, error) {
	var fields []pkgerrors.FieldError
	if productID <= 0 {
		fields = append(fields, pkgerrors.FieldError{
			Field:   "product",
			Message: "product must be a positive integer",
		})
	}
	if amount <= 0 {
		fields = append(fields, pkgerrors.FieldError{
			Field:   "amount",
			Message: "amount must be a positive integer",
		})
	}
	if len(fields) > 0 {
		return nil, pkgerrors.Validation(fields)
	}

	if _, err := s.products.FindProductByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	cart, err := s.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.LineExists(ctx, cart.ID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing line")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already in cart")
	}

	line, err := s.repo.CreateLine(ctx, &models.CartLine{
		CartID:    cart.ID,
		ProductID: productID,
		Amount:    amount,
	})
	if err != nil {
		// a concurrent insert can slip past the pre-check
		if db.IsUniqueViolation(err, "uq_cart_lines_cart_product") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already in cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart line")
	}
	return LineFromModel(line), nil
}

// GetLine returns a line from the caller's open cart. Lines belonging to
// anyone else read as missing, never as forbidden.
func (s *service) GetLine(ctx context.Context, userID, lineID int64) (*LineDTO, error) {
	line, owned, err := s.loadLine(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil || !owned {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	return LineFromModel(line), nil
}

// UpdateLine changes the amount on a line. Outcomes are ordered: invalid
// input, then missing line, then a line in someone else's cart, then success.
func (s *service) UpdateLine(ctx context.Context, userID, lineID, amount int64) (*LineDTO, error) {
	if amount <= 0 {
		return nil, pkgerrors.Validation([]pkgerrors.FieldError{
			{Field: "amount", Message: "amount must be a positive integer"},
		})
	}

	line, owned, err := s.loadLine(ctx, userID, lineID)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	if !owned {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cart line belongs to another cart")
	}

	updated, err := s.repo.UpdateLineAmount(ctx, lineID, amount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart line")
	}
	return LineFromModel(updated), nil
}

// DeleteLine removes a line with the same ordered outcomes as UpdateLine.
func (s *service) DeleteLine(ctx context.Context, userID, lineID int64) error {
	line, owned, err := s.loadLine(ctx, userID, lineID)
	if err != nil {
		return err
	}
	if line == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	if !owned {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cart line belongs to another cart")
	}

	if err := s.repo.DeleteLine(ctx, lineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart line")
	}
	return nil
}

// getOrCreateCart resolves the caller's open cart, creating one when absent.
// Losing the insert race to a concurrent request is fine: the winner's row is
// re-read and returned.
func (s *service) getOrCreateCart(ctx context.Context, userID int64) (*models.Cart, error) {
	cart, err := s.repo.FindOpenCartByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load open cart")
	}

	cart, err = s.repo.CreateOpenCart(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if db.IsUniqueViolation(err, "uq_carts_open_user") {
		cart, err = s.repo.FindOpenCartByUser(ctx, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "re-read open cart")
		}
		return cart, nil
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create open cart")
}

// loadLine fetches a line and reports whether it sits in the caller's open
// cart. A nil line with nil error means the line does not exist at all.
func (s *service) loadLine(ctx context.Context, userID, lineID int64) (*models.CartLine, bool, error) {
	line, err := s.repo.FindLineByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart line")
	}

	owner, err := s.repo.FindCartByID(ctx, line.CartID)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load owning cart")
	}

	owned := owner.UserID == userID && !owner.IsOrder
	return line, owned, nil
}
