// Package cart keeps session-scoped cart entries in memory.
package cart

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/pricing"
)

var (
	ErrEntryNotFound   = fmt.Errorf("cart item %w", apperr.ErrNotFound)
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// ProductLookup is the read-only catalog view the cart prices against.
type ProductLookup interface {
	Product(id int64) (catalog.ProductDetail, error)
}

type Repository interface {
	List(ctx context.Context, sessionID string) ([]Line, error)
	Add(ctx context.Context, sessionID string, productID int64, quantity int, sel pricing.Selections) (Entry, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int) (Entry, error)
	Remove(ctx context.Context, id int64) (Entry, bool, error)
	Clear(ctx context.Context, sessionID string) (int, error)
}

// MemoryRepository stores entries keyed by a monotonically increasing id.
// Ids are never reused, so listing by id order is insertion order.
type MemoryRepository struct {
	products ProductLookup
	now      func() time.Time

	mu      sync.RWMutex
	entries map[int64]Entry
	nextID  int64
}

func NewMemoryRepository(products ProductLookup) *MemoryRepository {
	return &MemoryRepository{
		products: products,
		now:      func() time.Time { return time.Now().UTC() },
		entries:  make(map[int64]Entry),
	}
}

func (r *MemoryRepository) List(ctx context.Context, sessionID string) ([]Line, error) {
	r.mu.RLock()
	var entries []Entry
	for _, e := range r.entries {
		if e.SessionID == sessionID {
			entries = append(entries, cloneEntry(e))
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(entries, func(a, b Entry) int { return cmp.Compare(a.ID, b.ID) })

	lines := make([]Line, 0, len(entries))
	for _, e := range entries {
		p, err := r.products.Product(e.ProductID)
		if err != nil {
			return nil, fmt.Errorf("load product %d for cart item %d: %w", e.ProductID, e.ID, err)
		}
		unit := pricing.ComputeTotal(p.Price, e.Selections, p.Options)
		lines = append(lines, Line{
			Entry:     e,
			Product:   p.Product,
			UnitPrice: unit,
			LineTotal: pricing.LineTotal(unit, e.Quantity),
		})
	}
	return lines, nil
}

func (r *MemoryRepository) Add(ctx context.Context, sessionID string, productID int64, quantity int, sel pricing.Selections) (Entry, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Entry{}, apperr.Invalid("Invalid cart item data", apperr.Field("sessionId", "is required"))
	}
	if err := checkQuantity(quantity); err != nil {
		return Entry{}, err
	}
	if _, err := r.products.Product(productID); err != nil {
		return Entry{}, fmt.Errorf("add product %d: %w", productID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	e := Entry{
		ID:         r.nextID,
		SessionID:  sessionID,
		ProductID:  productID,
		Quantity:   quantity,
		Selections: maps.Clone(sel),
		AddedAt:    r.now(),
	}
	r.entries[e.ID] = e
	return cloneEntry(e), nil
}

// UpdateQuantity rejects quantities below one before looking the entry up.
func (r *MemoryRepository) UpdateQuantity(ctx context.Context, id int64, quantity int) (Entry, error) {
	if err := checkQuantity(quantity); err != nil {
		return Entry{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return Entry{}, ErrEntryNotFound
	}
	e.Quantity = quantity
	r.entries[id] = e
	return cloneEntry(e), nil
}

// Remove deletes the entry and returns it. A missing id reports false
// without an error.
func (r *MemoryRepository) Remove(ctx context.Context, id int64) (Entry, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return Entry{}, false, nil
	}
	delete(r.entries, id)
	return e, true, nil
}

// Clear deletes every entry of the session and reports how many went.
func (r *MemoryRepository) Clear(ctx context.Context, sessionID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.entries {
		if e.SessionID == sessionID {
			delete(r.entries, id)
			removed++
		}
	}
	return removed, nil
}

func checkQuantity(q int) error {
	if q < 1 {
		return &apperr.ValidationError{
			Message: "Quantity must be at least 1",
			Fields:  []apperr.FieldError{apperr.Field("quantity", "must be at least 1")},
			Cause:   ErrInvalidQuantity,
		}
	}
	return nil
}

func cloneEntry(e Entry) Entry {
	e.Selections = maps.Clone(e.Selections)
	return e
}
