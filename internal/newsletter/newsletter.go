// Package newsletter stores newsletter subscriptions in memory.
package newsletter

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/validation"
)

var (
	ErrAlreadySubscribed = fmt.Errorf("email already subscribed to newsletter: %w", apperr.ErrConflict)
	ErrNotSubscribed     = fmt.Errorf("subscription %w", apperr.ErrNotFound)
)

type Subscription struct {
	ID           int64
	Email        string
	Active       bool
	SubscribedAt time.Time
}

type Repository interface {
	Subscribe(ctx context.Context, email string) (Subscription, error)
	Get(ctx context.Context, email string) (Subscription, error)
}

type MemoryRepository struct {
	now func() time.Time

	mu     sync.RWMutex
	subs   map[int64]Subscription
	nextID int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		now:  func() time.Time { return time.Now().UTC() },
		subs: make(map[int64]Subscription),
	}
}

// Normalize trims surrounding whitespace and lower-cases the address.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Subscribe creates an active subscription. An address that already has an
// active subscription is rejected with ErrAlreadySubscribed.
func (r *MemoryRepository) Subscribe(ctx context.Context, email string) (Subscription, error) {
	email = Normalize(email)
	if err := validation.Var("email", email, "required,email", "Invalid email format"); err != nil {
		return Subscription{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.findActive(email); ok {
		return Subscription{}, ErrAlreadySubscribed
	}
	r.nextID++
	s := Subscription{
		ID:           r.nextID,
		Email:        email,
		Active:       true,
		SubscribedAt: r.now(),
	}
	r.subs[s.ID] = s
	return s, nil
}

func (r *MemoryRepository) Get(ctx context.Context, email string) (Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.findActive(Normalize(email))
	if !ok {
		return Subscription{}, ErrNotSubscribed
	}
	return s, nil
}

// findActive expects r.mu to be held.
func (r *MemoryRepository) findActive(email string) (Subscription, bool) {
	for _, s := range r.subs {
		if s.Active && s.Email == email {
			return s, true
		}
	}
	return Subscription{}, false
}
