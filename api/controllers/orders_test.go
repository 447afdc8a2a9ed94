package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	orderssvc "github.com/arnarg/webshop-backend/internal/orders"
	pkgerrors "github.com/arnarg/webshop-backend/pkg/errors"
	"github.com/arnarg/webshop-backend/pkg/pagination"
)

type stubOrdersService struct {
	order  *orderssvc.OrderDTO
	list   []orderssvc.OrderDTO
	detail *orderssvc.OrderDetail
	err    error

	gotInput      orderssvc.CommitInput
	gotPrivileged bool
}

func (s *stubOrdersService) Commit(ctx context.Context, input orderssvc.CommitInput) (*orderssvc.OrderDTO, error) {
	s.gotInput = input
	return s.order, s.err
}

func (s *stubOrdersService) List(ctx context.Context, userID int64, page pagination.Window, privileged bool) ([]orderssvc.OrderDTO, error) {
	s.gotPrivileged = privileged
	return s.list, s.err
}

func (s *stubOrdersService) Get(ctx context.Context, orderID, userID int64, page pagination.Window, privileged bool) (*orderssvc.OrderDetail, error) {
	s.gotPrivileged = privileged
	return s.detail, s.err
}

func TestOrdersCommitCarriesCallerContext(t *testing.T) {
	svc := &stubOrdersService{order: &orderssvc.OrderDTO{ID: 11, UserID: 3}}
	handler := OrdersCommit(svc, nil)

	req := authedRequest(http.MethodPost, "/orders", `{"name":"Jane Doe","address":"1 Main Street","cart":42}`, 3, true)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.gotInput.UserID != 3 {
		t.Fatalf("expected caller 3, got %d", svc.gotInput.UserID)
	}
	if !svc.gotInput.Privileged {
		t.Fatal("expected privileged commit for admin caller")
	}
	if svc.gotInput.CartID != 42 {
		t.Fatalf("expected cart 42, got %d", svc.gotInput.CartID)
	}
}

func TestOrdersCommitRegularCallerNotPrivileged(t *testing.T) {
	svc := &stubOrdersService{order: &orderssvc.OrderDTO{ID: 11, UserID: 3}}
	handler := OrdersCommit(svc, nil)

	req := authedRequest(http.MethodPost, "/orders", `{"name":"Jane Doe","address":"1 Main Street"}`, 3, false)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.gotInput.Privileged {
		t.Fatal("regular caller must not be privileged")
	}
}

func TestOrdersListAdminFlagForwarded(t *testing.T) {
	svc := &stubOrdersService{list: []orderssvc.OrderDTO{{ID: 1}, {ID: 2}}}
	handler := OrdersList(svc, nil)

	req := authedRequest(http.MethodGet, "/orders", "", 3, true)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.gotPrivileged {
		t.Fatal("expected privileged listing for admin caller")
	}

	var envelope struct {
		Data []orderssvc.OrderDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(envelope.Data))
	}
}

func TestOrdersGetNotFoundPassthrough(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	handler := OrdersGet(svc, nil)

	req := withURLParam(authedRequest(http.MethodGet, "/orders/5", "", 3, false), "id", "5")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
