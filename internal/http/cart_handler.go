package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/http/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/pricing"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/validation"
)

const invalidCartItem = "Invalid cart item data"

var (
	errMalformedString        = errors.New("must be a JSON object or a string holding one")
	errMalformedCustomization = errors.New("must be a JSON object of option type to value")
)

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	lines, err := h.cart.List(r.Context(), sessionID)
	if err != nil {
		h.writeErr(w, r, err, "Failed to fetch cart items")
		return
	}
	writeJSON(w, http.StatusOK, dto.FromCart(sessionID, lines))
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCartItemRequest
	if err := decodeJSON(w, r, &req, invalidCartItem); err != nil {
		h.writeErr(w, r, err, "")
		return
	}
	if err := validation.Struct(req, invalidCartItem); err != nil {
		h.writeErr(w, r, err, "Failed to add item to cart")
		return
	}
	sel, err := parseCustomization(req.Customization)
	if err != nil {
		h.writeErr(w, r, apperr.Invalid(invalidCartItem, apperr.Field("customization", err.Error())), "")
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	e, err := h.cart.Add(r.Context(), req.SessionID, req.ProductID, quantity, sel)
	if err != nil {
		h.writeErr(w, r, err, "Failed to add item to cart")
		return
	}

	publish(h, r, events.CartItemAdded, e.SessionID, events.CartItemAddedPayload{
		SessionID:     e.SessionID,
		CartItemID:    e.ID,
		ProductID:     e.ProductID,
		Quantity:      e.Quantity,
		Customization: selectionsPayload(e.Selections),
		AddedAt:       e.AddedAt,
	})
	writeJSON(w, http.StatusCreated, dto.FromEntry(e))
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "Invalid cart item id")
	if err != nil {
		h.writeErr(w, r, err, "")
		return
	}
	var req dto.UpdateCartItemRequest
	if err := decodeJSON(w, r, &req, "Quantity must be at least 1"); err != nil {
		h.writeErr(w, r, err, "")
		return
	}
	quantity := 0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	e, err := h.cart.UpdateQuantity(r.Context(), id, quantity)
	if err != nil {
		h.writeErr(w, r, err, "Failed to update cart item")
		return
	}

	publish(h, r, events.CartItemUpdated, e.SessionID, events.CartItemUpdatedPayload{
		SessionID:  e.SessionID,
		CartItemID: e.ID,
		Quantity:   e.Quantity,
	})
	writeJSON(w, http.StatusOK, dto.FromEntry(e))
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "Invalid cart item id")
	if err != nil {
		h.writeErr(w, r, err, "")
		return
	}

	e, removed, err := h.cart.Remove(r.Context(), id)
	if err != nil {
		h.writeErr(w, r, err, "Failed to remove cart item")
		return
	}
	if !removed {
		h.writeErr(w, r, cart.ErrEntryNotFound, "")
		return
	}

	publish(h, r, events.CartItemRemoved, e.SessionID, events.CartItemRemovedPayload{CartItemID: e.ID})
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Item removed from cart"})
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	n, err := h.cart.Clear(r.Context(), sessionID)
	if err != nil {
		h.writeErr(w, r, err, "Failed to clear cart")
		return
	}

	if n > 0 {
		publish(h, r, events.CartCleared, sessionID, events.CartClearedPayload{
			SessionID:    sessionID,
			RemovedCount: n,
		})
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Cart cleared"})
}

// parseCustomization accepts null, a JSON string holding an object, or an
// object of option type to string value.
func parseCustomization(raw json.RawMessage) (pricing.Selections, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errMalformedString
		}
		sel, err := pricing.ParseSelections(s)
		if err != nil {
			return nil, errMalformedCustomization
		}
		return sel, nil
	}
	sel, err := pricing.ParseSelections(string(raw))
	if err != nil {
		return nil, errMalformedCustomization
	}
	return sel, nil
}

func selectionsPayload(sel pricing.Selections) map[string]string {
	if len(sel) == 0 {
		return nil
	}
	out := make(map[string]string, len(sel))
	for k, v := range sel {
		out[string(k)] = v
	}
	return out
}
