package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/http/dto"
)

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.FromCategories(h.catalog.Categories()))
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalog.CategoryBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		h.writeErr(w, r, err, "Failed to fetch category")
		return
	}
	writeJSON(w, http.StatusOK, dto.FromCategory(c))
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := catalog.Filter{
		Search: strings.TrimSpace(q.Get("search")),
		Sort:   catalog.ParseSortKey(q.Get("sortBy")),
	}
	if raw := strings.TrimSpace(q.Get("categoryId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.writeErr(w, r, apperr.Invalid("Invalid categoryId", apperr.Field("categoryId", "must be an integer")), "")
			return
		}
		f.CategoryID = &id
	}
	writeJSON(w, http.StatusOK, dto.FromProducts(h.catalog.Query(f)))
}

func (h *Handler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", catalog.DefaultFeaturedLimit)
	if err != nil {
		h.writeErr(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, dto.FromProducts(h.catalog.Featured(limit)))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.ProductBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		h.writeErr(w, r, err, "Failed to fetch product")
		return
	}
	writeJSON(w, http.StatusOK, dto.FromProductDetail(p))
}

func (h *Handler) CustomizationOptions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "Invalid product id")
	if err != nil {
		h.writeErr(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, dto.FromOptions(h.catalog.OptionsFor(id)))
}
