package httpapi

import (
	"net/http"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/http/dto"
)

func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req dto.SubscribeRequest
	if err := decodeJSON(w, r, &req, "Invalid email format"); err != nil {
		h.writeErr(w, r, err, "")
		return
	}

	s, err := h.newsletter.Subscribe(r.Context(), req.Email)
	if err != nil {
		h.writeErr(w, r, err, "Failed to subscribe to newsletter")
		return
	}

	publish(h, r, events.NewsletterSubscribed, s.Email, events.NewsletterSubscribedPayload{
		SubscriptionID: s.ID,
		Email:          s.Email,
		SubscribedAt:   s.SubscribedAt,
	})
	writeJSON(w, http.StatusCreated, dto.SubscribeResponse{
		Message:      "Successfully subscribed to newsletter!",
		Subscription: dto.SubscriptionRef{Email: s.Email},
	})
}
