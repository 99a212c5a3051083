// Package httpapi serves the storefront REST API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/http/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/newsletter"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/testimonial"
)

const maxBodyBytes = 1 << 20

// CatalogReader is the read side of catalog.Catalog used by the API.
type CatalogReader interface {
	Categories() []catalog.Category
	CategoryBySlug(slug string) (catalog.Category, error)
	Query(f catalog.Filter) []catalog.ProductWithCategory
	Featured(limit int) []catalog.ProductWithCategory
	ProductBySlug(slug string) (catalog.ProductDetail, error)
	OptionsFor(productID int64) []catalog.CustomizationOption
}

type Handler struct {
	logger       *log.Logger
	catalog      CatalogReader
	cart         cart.Repository
	newsletter   newsletter.Repository
	testimonials testimonial.Repository
	events       *events.Emitter
}

func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "["+ServiceName+"] ", log.LstdFlags|log.Lmicroseconds)
	}
	return &Handler{
		logger:       logger,
		catalog:      d.Catalog,
		cart:         d.Cart,
		newsletter:   d.Newsletter,
		testimonials: d.Testimonials,
		events:       d.Events,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok", Service: ServiceName})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "route not found", nil)
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
}

// writeErr maps err onto the error taxonomy. Anything unclassified is logged
// and answered with fallback as a 500.
func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		msg := apperr.MessageOf(err)
		if msg == "" {
			msg = "invalid request"
		}
		writeError(w, r, http.StatusBadRequest, msg, apperr.FieldsOf(err))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, r, http.StatusNotFound, notFoundMessage(err), nil)
	case errors.Is(err, apperr.ErrConflict):
		writeError(w, r, http.StatusConflict, conflictMessage(err), nil)
	default:
		h.logger.Printf("%s %s: %v correlation_id=%s", r.Method, r.URL.Path, err, middleware.GetCorrelationID(r.Context()))
		writeError(w, r, http.StatusInternalServerError, fallback, nil)
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, cart.ErrEntryNotFound):
		return "Cart item not found"
	case errors.Is(err, catalog.ErrProductNotFound):
		return "Product not found"
	case errors.Is(err, catalog.ErrCategoryNotFound):
		return "Category not found"
	default:
		return "Not found"
	}
}

func conflictMessage(err error) string {
	if errors.Is(err, newsletter.ErrAlreadySubscribed) {
		return "Email already subscribed to newsletter"
	}
	return "Conflict"
}

// publish emits an event after a committed mutation. Failures are logged and
// never reach the client.
func publish[T any](h *Handler, r *http.Request, name, partitionKey string, payload T) {
	if h.events == nil {
		return
	}
	meta := events.Meta{
		CorrelationID: middleware.GetCorrelationID(r.Context()),
		PartitionKey:  partitionKey,
	}
	// The request context may be cancelled once the response is written.
	ctx := context.WithoutCancel(r.Context())
	if _, err := events.Emit(ctx, h.events, name, meta, payload); err != nil {
		h.logger.Printf("publish %s: %v correlation_id=%s", name, err, meta.CorrelationID)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any, message string) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Invalid(message, apperr.Field("body", "is required"))
		}
		return apperr.Invalid(message, apperr.Field("body", "must be valid JSON of the expected shape"))
	}
	return nil
}

func pathID(r *http.Request, param, message string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Invalid(message, apperr.Field(param, "must be an integer"))
	}
	return id, nil
}

// queryInt parses a non-negative integer query parameter, returning def when
// it is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.Invalid("Invalid "+name, apperr.Field(name, "must be a non-negative integer"))
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string, fields []apperr.FieldError) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:         msg,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
		Fields:        fields,
	})
}
