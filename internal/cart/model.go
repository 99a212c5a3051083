package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/pricing"
)

// Entry is one add-to-cart action. Entries are never merged: adding the same
// product twice yields two entries.
type Entry struct {
	ID         int64
	SessionID  string
	ProductID  int64
	Quantity   int
	Selections pricing.Selections
	AddedAt    time.Time
}

// Line is an Entry joined with its product and priced.
type Line struct {
	Entry
	Product catalog.Product
	// UnitPrice is the product price plus the modifiers of the entry's selections.
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

type Summary struct {
	ItemCount int
	// Subtotal sums UnitPrice × quantity, so customization modifiers count.
	Subtotal decimal.Decimal
	// BaseSubtotal sums the bare product price × quantity.
	BaseSubtotal decimal.Decimal
}

// Summarize derives the cart totals from listed lines.
func Summarize(lines []Line) Summary {
	s := Summary{Subtotal: decimal.Zero, BaseSubtotal: decimal.Zero}
	for _, l := range lines {
		s.ItemCount += l.Quantity
		s.Subtotal = s.Subtotal.Add(pricing.LineTotal(l.UnitPrice, l.Quantity))
		s.BaseSubtotal = s.BaseSubtotal.Add(pricing.LineTotal(l.Product.Price, l.Quantity))
	}
	s.Subtotal = s.Subtotal.Round(pricing.Places)
	s.BaseSubtotal = s.BaseSubtotal.Round(pricing.Places)
	return s
}
