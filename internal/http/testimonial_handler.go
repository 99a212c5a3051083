package httpapi

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/http/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/testimonial"
)

// testimonialPartition keeps all testimonial events in one ordered stream.
const testimonialPartition = "testimonials"

func (h *Handler) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", testimonial.DefaultLimit)
	if err != nil {
		h.writeErr(w, r, err, "")
		return
	}
	ts, err := h.testimonials.List(r.Context(), limit)
	if err != nil {
		h.writeErr(w, r, err, "Failed to fetch testimonials")
		return
	}
	writeJSON(w, http.StatusOK, dto.FromTestimonials(ts))
}

func (h *Handler) ProductTestimonials(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "Invalid product id")
	if err != nil {
		h.writeErr(w, r, err, "")
		return
	}
	ts, err := h.testimonials.ListByProduct(r.Context(), id)
	if err != nil {
		h.writeErr(w, r, err, "Failed to fetch product testimonials")
		return
	}
	writeJSON(w, http.StatusOK, dto.FromTestimonials(ts))
}

func (h *Handler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var in testimonial.Input
	if err := decodeJSON(w, r, &in, "Invalid testimonial data"); err != nil {
		h.writeErr(w, r, err, "")
		return
	}

	t, err := h.testimonials.Create(r.Context(), in)
	if err != nil {
		h.writeErr(w, r, err, "Failed to submit testimonial")
		return
	}

	publish(h, r, events.TestimonialSubmitted, testimonialPartition, events.TestimonialSubmittedPayload{
		TestimonialID: t.ID,
		Rating:        t.Rating,
		ProductID:     t.ProductID,
	})
	writeJSON(w, http.StatusCreated, dto.CreateTestimonialResponse{
		Message:     "Thank you for your testimonial!",
		Testimonial: dto.FromTestimonial(t),
	})
}
