package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/newsletter"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/telemetry"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/testimonial"
)

const ServiceName = "storefront-service"

type Deps struct {
	Logger *log.Logger

	Catalog      CatalogReader
	Cart         cart.Repository
	Newsletter   newsletter.Repository
	Testimonials testimonial.Repository

	// Events is optional; nil disables publishing.
	Events *events.Emitter

	CORSAllowOrigins []string
	RequestTimeout   time.Duration
	Tracing          bool
}

func NewRouter(d Deps) http.Handler {
	h := NewHandler(d)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(chimw.RequestLogger(&chimw.DefaultLogFormatter{Logger: h.logger, NoColor: true}))
	r.Use(middleware.Recover(h.logger))
	r.Use(middleware.CORS(d.CORSAllowOrigins))
	if d.RequestTimeout > 0 {
		r.Use(chimw.Timeout(d.RequestTimeout))
	}

	r.NotFound(h.notFound)
	r.MethodNotAllowed(h.methodNotAllowed)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", h.ListCategories)
		r.Get("/categories/{slug}", h.GetCategory)

		r.Get("/products", h.ListProducts)
		r.Get("/products/featured", h.FeaturedProducts)
		r.Get("/products/{slug}", h.GetProduct)
		r.Get("/products/{id}/customization", h.CustomizationOptions)

		r.Post("/newsletter/subscribe", h.Subscribe)

		r.Get("/cart/{sessionId}", h.GetCart)
		r.Post("/cart", h.AddToCart)
		r.Put("/cart/{id}", h.UpdateCartItem)
		r.Delete("/cart/{id}", h.RemoveCartItem)
		r.Delete("/cart/session/{sessionId}", h.ClearCart)

		r.Get("/testimonials", h.ListTestimonials)
		r.Get("/testimonials/product/{id}", h.ProductTestimonials)
		r.Post("/testimonials", h.CreateTestimonial)
	})

	if d.Tracing {
		return telemetry.Middleware(ServiceName)(r)
	}
	return r
}
