package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arnarg/webshop-backend/api/middleware"
	"github.com/arnarg/webshop-backend/api/responses"
	"github.com/arnarg/webshop-backend/api/validators"
	"github.com/arnarg/webshop-backend/internal/orders"
	pkgerrors "github.com/arnarg/webshop-backend/pkg/errors"
	"github.com/arnarg/webshop-backend/pkg/logger"
)

type commitRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Cart    int64  `json:"cart"`
}

// OrdersList returns the caller's orders, or every order for admins.
func OrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		page := validators.ParsePagination(r)
		list, err := svc.List(
			r.Context(),
			middleware.UserIDFromContext(r.Context()),
			page,
			middleware.IsAdminFromContext(r.Context()),
		)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// OrdersCommit turns an open cart into an order. Regular callers always
// commit their own cart; admins may name another user's cart.
func OrdersCommit(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var body commitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Commit(r.Context(), orders.CommitInput{
			UserID:     middleware.UserIDFromContext(r.Context()),
			CartID:     body.Cart,
			Name:       body.Name,
			Address:    body.Address,
			Privileged: middleware.IsAdminFromContext(r.Context()),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrdersGet returns an order with a page of lines and the full total.
func OrdersGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page := validators.ParsePagination(r)
		detail, err := svc.Get(
			r.Context(),
			id,
			middleware.UserIDFromContext(r.Context()),
			page,
			middleware.IsAdminFromContext(r.Context()),
		)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}
