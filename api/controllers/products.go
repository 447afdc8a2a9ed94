package controllers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/arnarg/webshop-backend/api/responses"
	"github.com/arnarg/webshop-backend/api/validators"
	"github.com/arnarg/webshop-backend/internal/catalog"
	pkgerrors "github.com/arnarg/webshop-backend/pkg/errors"
	"github.com/arnarg/webshop-backend/pkg/logger"
)

// Product payloads arrive as multipart forms because they can carry an image
// file alongside the scalar fields.
const productFormMemory = 32 << 20

// ProductsList returns a page of products, optionally narrowed by category
// and a case-insensitive title/description search.
func ProductsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		page := validators.ParsePagination(r)

		var filter catalog.ProductFilter
		filter.Search = r.URL.Query().Get("search")
		if raw := r.URL.Query().Get("category"); raw != "" {
			id, err := validators.ParsePathID(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			filter.CategoryID = &id
		}

		list, err := svc.ListProducts(r.Context(), page, filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// ProductsGet returns a single product by id.
func ProductsGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductsCreate accepts a multipart form with the product fields and an
// image file.
func ProductsCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		if err := r.ParseMultipartForm(productFormMemory); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		var req catalog.CreateProductRequest
		req.Title = r.FormValue("title")
		req.Description = r.FormValue("description")
		if raw := r.FormValue("price"); raw != "" {
			price, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must be an integer"))
				return
			}
			req.Price = price
		}
		if raw := r.FormValue("category"); raw != "" {
			id, err := validators.ParsePathID(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			req.CategoryID = id
		}

		image, closeImage, err := formImage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if closeImage != nil {
			defer closeImage()
		}

		product, err := svc.CreateProduct(r.Context(), req, image)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductsUpdate applies a partial update. Absent form fields are left
// untouched; an image file replaces the stored one.
func ProductsUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(productFormMemory); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		var req catalog.UpdateProductRequest
		if v, ok := formString(r, "title"); ok {
			req.Title = &v
		}
		if v, ok := formString(r, "description"); ok {
			req.Description = &v
		}
		if raw, ok := formString(r, "price"); ok {
			price, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must be an integer"))
				return
			}
			req.Price = &price
		}
		if raw, ok := formString(r, "category"); ok {
			categoryID, err := validators.ParsePathID(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			req.CategoryID = &categoryID
		}

		image, closeImage, err := optionalFormImage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if closeImage != nil {
			defer closeImage()
		}

		product, err := svc.UpdateProduct(r.Context(), id, req, image)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductsDelete removes a product and its stored image.
func ProductsDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := validators.ParsePathID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func formString(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func formImage(r *http.Request) (io.Reader, func(), error) {
	file, _, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil, nil
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid image upload")
	}
	return file, fileCloser(file), nil
}

func optionalFormImage(r *http.Request) (io.Reader, func(), error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File["image"]) == 0 {
		return nil, nil, nil
	}
	return formImage(r)
}

func fileCloser(file multipart.File) func() {
	return func() {
		_ = file.Close()
	}
}
