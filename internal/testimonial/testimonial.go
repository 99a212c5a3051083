// Package testimonial stores customer testimonials in memory.
package testimonial

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/validation"
)

// DefaultLimit is the number of testimonials List returns when no limit is given.
const DefaultLimit = 10

type Testimonial struct {
	ID        int64
	Name      string
	Email     string
	Content   string
	Rating    int
	ProductID *int64
	Verified  bool
	CreatedAt time.Time
}

// Input is a testimonial as submitted by a customer.
type Input struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Content   string `json:"content" validate:"required"`
	Rating    int    `json:"rating" validate:"gte=1,lte=5"`
	ProductID *int64 `json:"productId" validate:"omitnil,gt=0"`
}

type ProductLookup interface {
	Product(id int64) (catalog.ProductDetail, error)
}

type Repository interface {
	List(ctx context.Context, limit int) ([]Testimonial, error)
	ListByProduct(ctx context.Context, productID int64) ([]Testimonial, error)
	Create(ctx context.Context, in Input) (Testimonial, error)
}

type MemoryRepository struct {
	products ProductLookup
	now      func() time.Time

	mu     sync.RWMutex
	items  map[int64]Testimonial
	nextID int64
}

func NewMemoryRepository(products ProductLookup) *MemoryRepository {
	return &MemoryRepository{
		products: products,
		now:      func() time.Time { return time.Now().UTC() },
		items:    make(map[int64]Testimonial),
	}
}

// List returns verified testimonials, newest first. A limit of zero returns all.
func (r *MemoryRepository) List(ctx context.Context, limit int) ([]Testimonial, error) {
	if limit < 0 {
		return nil, apperr.Invalid("Invalid limit", apperr.Field("limit", "must be at least 0"))
	}
	out := r.collect(func(Testimonial) bool { return true })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) ListByProduct(ctx context.Context, productID int64) ([]Testimonial, error) {
	return r.collect(func(t Testimonial) bool {
		return t.ProductID != nil && *t.ProductID == productID
	}), nil
}

// Create stores a testimonial. Submissions are published immediately; there
// is no moderation step. A product id of 0 means no product.
func (r *MemoryRepository) Create(ctx context.Context, in Input) (Testimonial, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Content = strings.TrimSpace(in.Content)
	if in.ProductID != nil && *in.ProductID == 0 {
		in.ProductID = nil
	}
	if err := validation.Struct(in, "Invalid testimonial data"); err != nil {
		return Testimonial{}, err
	}
	if in.ProductID != nil {
		if _, err := r.products.Product(*in.ProductID); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return Testimonial{}, apperr.Invalid("Invalid testimonial data",
					apperr.Field("productId", "does not reference a known product"))
			}
			return Testimonial{}, fmt.Errorf("check product %d: %w", *in.ProductID, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	t := Testimonial{
		ID:        r.nextID,
		Name:      in.Name,
		Email:     in.Email,
		Content:   in.Content,
		Rating:    in.Rating,
		ProductID: clonePtr(in.ProductID),
		Verified:  true,
		CreatedAt: r.now(),
	}
	r.items[t.ID] = t
	return clone(t), nil
}

func (r *MemoryRepository) collect(keep func(Testimonial) bool) []Testimonial {
	r.mu.RLock()
	out := make([]Testimonial, 0, len(r.items))
	for _, t := range r.items {
		if t.Verified && keep(t) {
			out = append(out, clone(t))
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b Testimonial) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out
}

func clone(t Testimonial) Testimonial {
	t.ProductID = clonePtr(t.ProductID)
	return t
}

func clonePtr(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
