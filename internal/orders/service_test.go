package orders

import (
	"context"
	"strings"
	"testing"

	"github.com/arnarg/webshop-backend/pkg/db/models"
	pkgerrors "github.com/arnarg/webshop-backend/pkg/errors"
	"github.com/arnarg/webshop-backend/pkg/pagination"
	"gorm.io/gorm"
)

type stubOrderRepo struct {
	carts  map[int64]*models.Cart
	lines  map[int64]*models.CartLine
	totals map[int64]int64
	nextID int64
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		carts:  map[int64]*models.Cart{},
		lines:  map[int64]*models.CartLine{},
		totals: map[int64]int64{},
		nextID: 1,
	}
}

func (s *stubOrderRepo) addOpenCart(userID int64) *models.Cart {
	cart := &models.Cart{ID: s.nextID, UserID: userID}
	s.nextID++
	s.carts[cart.ID] = cart
	return cart
}

func (s *stubOrderRepo) addOrder(userID int64, name, address string) *models.Cart {
	order := &models.Cart{ID: s.nextID, UserID: userID, IsOrder: true, Name: &name, Address: &address}
	s.nextID++
	s.carts[order.ID] = order
	return order
}

func (s *stubOrderRepo) FindOpenCartByUser(ctx context.Context, userID int64) (*models.Cart, error) {
	for id := int64(1); id < s.nextID; id++ {
		if c, ok := s.carts[id]; ok && c.UserID == userID && !c.IsOrder {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) FindOpenCartByID(ctx context.Context, id int64) (*models.Cart, error) {
	c, ok := s.carts[id]
	if !ok || c.IsOrder {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (s *stubOrderRepo) Commit(ctx context.Context, cartID int64, name, address string) (*models.Cart, error) {
	c, ok := s.carts[cartID]
	if !ok || c.IsOrder {
		return nil, gorm.ErrRecordNotFound
	}
	c.IsOrder = true
	c.Name = &name
	c.Address = &address
	return c, nil
}

func (s *stubOrderRepo) FindOrderByID(ctx context.Context, id int64) (*models.Cart, error) {
	c, ok := s.carts[id]
	if !ok || !c.IsOrder {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (s *stubOrderRepo) ListOrders(ctx context.Context, userID int64, page pagination.Window) ([]models.Cart, error) {
	var out []models.Cart
	for id := int64(1); id < s.nextID; id++ {
		c, ok := s.carts[id]
		if !ok || !c.IsOrder {
			continue
		}
		if userID != 0 && c.UserID != userID {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubOrderRepo) ListLines(ctx context.Context, cartID int64, page pagination.Window) ([]models.CartLine, error) {
	var out []models.CartLine
	for id := int64(1); id < s.nextID; id++ {
		if l, ok := s.lines[id]; ok && l.CartID == cartID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (s *stubOrderRepo) TotalPrice(ctx context.Context, cartID int64) (int64, error) {
	return s.totals[cartID], nil
}

func buildOrderService(t *testing.T) (*stubOrderRepo, Service) {
	t.Helper()
	repo := newStubOrderRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return repo, svc
}

func TestCommitValidationCollectsAllViolations(t *testing.T) {
	_, svc := buildOrderService(t)

	_, err := svc.Commit(context.Background(), CommitInput{
		UserID:  1,
		Name:    "abc",
		Address: strings.Repeat("x", 101),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	fields, ok := typed.Details().([]pkgerrors.FieldError)
	if !ok || len(fields) != 2 {
		t.Fatalf("expected name and address violations, got %v", typed.Details())
	}
}

func TestCommitOwnOpenCart(t *testing.T) {
	repo, svc := buildOrderService(t)
	cart := repo.addOpenCart(1)

	order, err := svc.Commit(context.Background(), CommitInput{
		UserID:  1,
		Name:    "Jane Shopper",
		Address: "12 Harbour Street",
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if order.ID != cart.ID {
		t.Fatalf("expected own cart %d committed, got %d", cart.ID, order.ID)
	}
	if order.Name != "Jane Shopper" || order.Address != "12 Harbour Street" {
		t.Fatalf("shipping details not stamped: %+v", order)
	}
	if !repo.carts[cart.ID].IsOrder {
		t.Fatalf("cart not marked as order")
	}
}

func TestCommitWithoutOpenCart(t *testing.T) {
	_, svc := buildOrderService(t)

	_, err := svc.Commit(context.Background(), CommitInput{
		UserID:  1,
		Name:    "Jane Shopper",
		Address: "12 Harbour Street",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCommitRegularCallerCartIDIgnored(t *testing.T) {
	repo, svc := buildOrderService(t)
	own := repo.addOpenCart(1)
	foreign := repo.addOpenCart(2)

	order, err := svc.Commit(context.Background(), CommitInput{
		UserID:  1,
		CartID:  foreign.ID,
		Name:    "Jane Shopper",
		Address: "12 Harbour Street",
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if order.ID != own.ID {
		t.Fatalf("regular caller must commit own cart, got %d", order.ID)
	}
	if repo.carts[foreign.ID].IsOrder {
		t.Fatalf("foreign cart was committed")
	}
}

func TestCommitPrivilegedTargetsAnyOpenCart(t *testing.T) {
	repo, svc := buildOrderService(t)
	repo.addOpenCart(1)
	foreign := repo.addOpenCart(2)

	order, err := svc.Commit(context.Background(), CommitInput{
		UserID:     1,
		CartID:     foreign.ID,
		Name:       "Warehouse Desk",
		Address:    "Backoffice Lane 3",
		Privileged: true,
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if order.ID != foreign.ID || order.UserID != 2 {
		t.Fatalf("expected foreign cart committed for its owner, got %+v", order)
	}
}

func TestCommitPrivilegedAlreadyCommitted(t *testing.T) {
	repo, svc := buildOrderService(t)
	order := repo.addOrder(2, "Prior Order", "Some Address 1")

	_, err := svc.Commit(context.Background(), CommitInput{
		UserID:     1,
		CartID:     order.ID,
		Name:       "Warehouse Desk",
		Address:    "Backoffice Lane 3",
		Privileged: true,
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for committed cart, got %v", err)
	}
}

func TestListScopesToCallerUnlessPrivileged(t *testing.T) {
	repo, svc := buildOrderService(t)
	repo.addOrder(1, "Order One", "Address One 1")
	repo.addOrder(2, "Order Two", "Address Two 2")
	repo.addOrder(1, "Order Three", "Address Three 3")

	own, err := svc.List(context.Background(), 1, pagination.Normalize(0, 10), false)
	if err != nil {
		t.Fatalf("list own: %v", err)
	}
	if len(own) != 2 {
		t.Fatalf("expected 2 own orders, got %d", len(own))
	}
	for i := 1; i < len(own); i++ {
		if own[i].ID < own[i-1].ID {
			t.Fatalf("orders not oldest-first: %+v", own)
		}
	}

	all, err := svc.List(context.Background(), 1, pagination.Normalize(0, 10), true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 orders for privileged caller, got %d", len(all))
	}
}

func TestGetForeignOrderReadsAsMissing(t *testing.T) {
	repo, svc := buildOrderService(t)
	order := repo.addOrder(2, "Order Two", "Address Two 2")

	_, err := svc.Get(context.Background(), order.ID, 1, pagination.Normalize(0, 10), false)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}

	detail, err := svc.Get(context.Background(), order.ID, 1, pagination.Normalize(0, 10), true)
	if err != nil {
		t.Fatalf("privileged get: %v", err)
	}
	if detail.Order.ID != order.ID {
		t.Fatalf("unexpected order %+v", detail.Order)
	}
}

func TestGetIncludesLinesAndTotal(t *testing.T) {
	repo, svc := buildOrderService(t)
	order := repo.addOrder(1, "Order One", "Address One 1")
	repo.lines[repo.nextID] = &models.CartLine{ID: repo.nextID, CartID: order.ID, ProductID: 7, Amount: 2}
	repo.nextID++
	repo.totals[order.ID] = 9980

	detail, err := svc.Get(context.Background(), order.ID, 1, pagination.Normalize(0, 10), false)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(detail.Lines) != 1 || detail.Lines[0].ProductID != 7 {
		t.Fatalf("unexpected lines %+v", detail.Lines)
	}
	if detail.TotalPrice != 9980 {
		t.Fatalf("expected total 9980, got %d", detail.TotalPrice)
	}
}

func TestGetOpenCartIsNotAnOrder(t *testing.T) {
	repo, svc := buildOrderService(t)
	cart := repo.addOpenCart(1)

	_, err := svc.Get(context.Background(), cart.ID, 1, pagination.Normalize(0, 10), false)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("open carts must not read as orders, got %v", err)
	}
}
