package dto

import (
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/testimonial"
)

// Testimonial omits the author's email.
type Testimonial struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Content    string    `json:"content"`
	Rating     int       `json:"rating"`
	ProductID  *int64    `json:"productId"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CreateTestimonialResponse struct {
	Message     string      `json:"message"`
	Testimonial Testimonial `json:"testimonial"`
}

func FromTestimonial(t testimonial.Testimonial) Testimonial {
	return Testimonial{
		ID:         t.ID,
		Name:       t.Name,
		Content:    t.Content,
		Rating:     t.Rating,
		ProductID:  t.ProductID,
		IsVerified: t.Verified,
		CreatedAt:  t.CreatedAt,
	}
}

func FromTestimonials(ts []testimonial.Testimonial) []Testimonial {
	out := make([]Testimonial, 0, len(ts))
	for _, t := range ts {
		out = append(out, FromTestimonial(t))
	}
	return out
}
