package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/arnarg/webshop-backend/internal/cart"
	"github.com/arnarg/webshop-backend/pkg/db/models"
	pkgerrors "github.com/arnarg/webshop-backend/pkg/errors"
	"github.com/arnarg/webshop-backend/pkg/pagination"
	"gorm.io/gorm"
)

const (
	nameMinLen    = 4
	nameMaxLen    = 64
	addressMinLen = 4
	addressMaxLen = 100
)

// Service defines the behavior needed by the orders controller. Orders are
// committed carts: the transition is one-way and freezes the lines.
type Service interface {
	Commit(ctx context.Context, input CommitInput) (*OrderDTO, error)
	List(ctx context.Context, userID int64, page pagination.Window, privileged bool) ([]OrderDTO, error)
	Get(ctx context.Context, orderID, userID int64, page pagination.Window, privileged bool) (*OrderDetail, error)
}

// cartRepository is the slice of the cart repo the committer needs. Orders
// live in the carts table, so the cart module owns the persistence.
type cartRepository interface {
	FindOpenCartByUser(ctx context.Context, userID int64) (*models.Cart, error)
	FindOpenCartByID(ctx context.Context, id int64) (*models.Cart, error)
	Commit(ctx context.Context, cartID int64, name, address string) (*models.Cart, error)
	FindOrderByID(ctx context.Context, id int64) (*models.Cart, error)
	ListOrders(ctx context.Context, userID int64, page pagination.Window) ([]models.Cart, error)
	ListLines(ctx context.Context, cartID int64, page pagination.Window) ([]models.CartLine, error)
	TotalPrice(ctx context.Context, cartID int64) (int64, error)
}

type service struct {
	carts cartRepository
}

// NewService constructs an orders service with the provided dependencies.
func NewService(carts cartRepository) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	return &service{carts: carts}, nil
}

// Commit turns an open cart into an order. Privileged callers may target any
// open cart by id; for everyone else the CartID input is ignored and their
// own open cart is committed.
func (s *service) Commit(ctx context.Context, input CommitInput) (*OrderDTO, error) {
	if fields := validateShipping(input.Name, input.Address); len(fields) > 0 {
		return nil, pkgerrors.Validation(fields)
	}

	target, err := s.resolveTarget(ctx, input)
	if err != nil {
		return nil, err
	}

	order, err := s.carts.Commit(ctx, target.ID, input.Name, input.Address)
	if err != nil {
		// the cart can commit concurrently between resolve and commit
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no open cart to commit")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "commit cart")
	}
	return fromModel(order), nil
}

// List returns committed orders oldest first. Privileged callers see every
// user's orders, everyone else only their own.
func (s *service) List(ctx context.Context, userID int64, page pagination.Window, privileged bool) ([]OrderDTO, error) {
	scope := userID
	if privileged {
		scope = 0
	}

	rows, err := s.carts.ListOrders(ctx, scope, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *fromModel(&rows[i]))
	}
	return out, nil
}

// Get returns an order with a page of its lines and the total over all lines.
// Foreign orders read as missing for non-privileged callers, never as
// forbidden.
func (s *service) Get(ctx context.Context, orderID, userID int64, page pagination.Window, privileged bool) (*OrderDetail, error) {
	order, err := s.carts.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if !privileged && order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	lines, err := s.carts.ListLines(ctx, order.ID, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list order lines")
	}
	total, err := s.carts.TotalPrice(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute order total")
	}

	detail := &OrderDetail{
		Order:      *fromModel(order),
		Lines:      make([]cart.LineDTO, 0, len(lines)),
		TotalPrice: total,
	}
	for i := range lines {
		detail.Lines = append(detail.Lines, *cart.LineFromModel(&lines[i]))
	}
	return detail, nil
}

func (s *service) resolveTarget(ctx context.Context, input CommitInput) (*models.Cart, error) {
	if input.Privileged && input.CartID != 0 {
		target, err := s.carts.FindOpenCartByID(ctx, input.CartID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no open cart to commit")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load target cart")
		}
		return target, nil
	}

	target, err := s.carts.FindOpenCartByUser(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no open cart to commit")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load open cart")
	}
	return target, nil
}

// validateShipping checks the shipping name and address, collecting every
// violation.
func validateShipping(name, address string) []pkgerrors.FieldError {
	var fields []pkgerrors.FieldError
	if len(name) < nameMinLen || len(name) > nameMaxLen {
		fields = append(fields, pkgerrors.FieldError{
			Field:   "name",
			Message: "name must be between 4 and 64 characters",
		})
	}
	if len(address) < addressMinLen || len(address) > addressMaxLen {
		fields = append(fields, pkgerrors.FieldError{
			Field:   "address",
			Message: "address must be between 4 and 100 characters",
		})
	}
	return fields
}
