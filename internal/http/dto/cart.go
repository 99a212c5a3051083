package dto

import (
	"encoding/json"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/pricing"
)

// AddCartItemRequest accepts customization either as a JSON string holding an
// object or as the object itself.
type AddCartItemRequest struct {
	SessionID     string          `json:"sessionId" validate:"required"`
	ProductID     int64           `json:"productId" validate:"required,gt=0"`
	Quantity      *int            `json:"quantity"`
	Customization json.RawMessage `json:"customization"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity"`
}

// CartItem is a stored entry. Customization is the serialized selections
// object, or null when nothing was selected.
type CartItem struct {
	ID            int64     `json:"id"`
	SessionID     string    `json:"sessionId"`
	ProductID     int64     `json:"productId"`
	Quantity      int       `json:"quantity"`
	Customization *string   `json:"customization"`
	AddedAt       time.Time `json:"addedAt"`
}

type CartLine struct {
	CartItem
	Product   Product `json:"product"`
	UnitPrice string  `json:"unitPrice"`
	LineTotal string  `json:"lineTotal"`
}

type Cart struct {
	SessionID    string     `json:"sessionId"`
	Items        []CartLine `json:"items"`
	ItemCount    int        `json:"itemCount"`
	Subtotal     string     `json:"subtotal"`
	BaseSubtotal string     `json:"baseSubtotal"`
}

func FromEntry(e cart.Entry) CartItem {
	item := CartItem{
		ID:        e.ID,
		SessionID: e.SessionID,
		ProductID: e.ProductID,
		Quantity:  e.Quantity,
		AddedAt:   e.AddedAt,
	}
	if s := pricing.FormatSelections(e.Selections); s != "" {
		item.Customization = &s
	}
	return item
}

func FromCart(sessionID string, lines []cart.Line) Cart {
	sum := cart.Summarize(lines)
	items := make([]CartLine, 0, len(lines))
	for _, l := range lines {
		items = append(items, CartLine{
			CartItem:  FromEntry(l.Entry),
			Product:   FromProduct(l.Product),
			UnitPrice: pricing.Format(l.UnitPrice),
			LineTotal: pricing.Format(l.LineTotal),
		})
	}
	return Cart{
		SessionID:    sessionID,
		Items:        items,
		ItemCount:    sum.ItemCount,
		Subtotal:     pricing.Format(sum.Subtotal),
		BaseSubtotal: pricing.Format(sum.BaseSubtotal),
	}
}
