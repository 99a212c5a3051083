package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/pricing"
)

type fakeCatalog struct {
	products map[int64]catalog.ProductDetail
	err      error
}

func (f *fakeCatalog) Product(id int64) (catalog.ProductDetail, error) {
	if f.err != nil {
		return catalog.ProductDetail{}, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return catalog.ProductDetail{}, catalog.ErrProductNotFound
	}
	return p, nil
}

func newFakeCatalog() *fakeCatalog {
	mug := catalog.ProductDetail{
		ProductWithCategory: catalog.ProductWithCategory{Product: catalog.Product{
			ID: 1, Slug: "artisan-ceramic-mug", Price: decimal.RequireFromString("32.00"),
		}},
		Options: []catalog.CustomizationOption{
			{ID: 1, ProductID: 1, Type: catalog.OptionColor, Values: []string{"Blue"}},
			{ID: 2, ProductID: 1, Type: catalog.OptionText, PriceModifier: decimal.RequireFromString("5.00")},
		},
	}
	basket := catalog.ProductDetail{
		ProductWithCategory: catalog.ProductWithCategory{Product: catalog.Product{
			ID: 5, Slug: "handwoven-storage-basket", Price: decimal.RequireFromString("38.00"),
		}},
	}
	return &fakeCatalog{products: map[int64]catalog.ProductDetail{1: mug, 5: basket}}
}

func newRepo(t *testing.T) *MemoryRepository {
	t.Helper()
	r := NewMemoryRepository(newFakeCatalog())
	r.now = func() time.Time { return time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC) }
	return r
}

func TestListUnknownSessionIsEmpty(t *testing.T) {
	r := newRepo(t)

	lines, err := r.List(context.Background(), "session-new")
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestAddNeverMergesLines(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	sel := pricing.Selections{catalog.OptionText: "Hello"}

	first, err := r.Add(ctx, "s1", 1, 1, sel)
	require.NoError(t, err)
	second, err := r.Add(ctx, "s1", 1, 1, sel)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	lines, err := r.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, lines, 2)

	gone, removed, err := r.Remove(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, "s1", gone.SessionID)

	lines, err = r.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, second.ID, lines[0].ID)
}

func TestAddValidation(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	_, err := r.Add(ctx, "", 1, 1, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = r.Add(ctx, "s1", 1, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = r.Add(ctx, "s1", 99, 1, nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAddCopiesSelections(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	sel := pricing.Selections{catalog.OptionText: "Hello"}

	e, err := r.Add(ctx, "s1", 1, 1, sel)
	require.NoError(t, err)
	sel[catalog.OptionText] = "Changed"
	e.Selections[catalog.OptionColor] = "Blue"

	lines, err := r.List(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, pricing.Selections{catalog.OptionText: "Hello"}, lines[0].Selections)
}

func TestListJoinsAndPrices(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	_, err := r.Add(ctx, "s1", 1, 2, pricing.Selections{catalog.OptionText: "Hello", catalog.OptionColor: "Blue"})
	require.NoError(t, err)
	_, err = r.Add(ctx, "s1", 5, 1, nil)
	require.NoError(t, err)
	_, err = r.Add(ctx, "other", 5, 3, nil)
	require.NoError(t, err)

	lines, err := r.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "artisan-ceramic-mug", lines[0].Product.Slug)
	assert.Equal(t, "37.00", pricing.Format(lines[0].UnitPrice))
	assert.Equal(t, "74.00", pricing.Format(lines[0].LineTotal))
	assert.Equal(t, "38.00", pricing.Format(lines[1].UnitPrice))
	assert.Equal(t, time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC), lines[1].AddedAt)

	sum := Summarize(lines)
	assert.Equal(t, 3, sum.ItemCount)
	assert.Equal(t, "112.00", pricing.Format(sum.Subtotal))
	assert.Equal(t, "102.00", pricing.Format(sum.BaseSubtotal))
}

func TestListProductLookupError(t *testing.T) {
	ctx := context.Background()
	products := newFakeCatalog()
	r := NewMemoryRepository(products)

	_, err := r.Add(ctx, "s1", 1, 1, nil)
	require.NoError(t, err)

	products.err = errors.New("catalog unavailable")
	_, err = r.List(ctx, "s1")
	assert.Error(t, err)
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	e, err := r.Add(ctx, "s1", 1, 1, nil)
	require.NoError(t, err)

	tests := map[string]struct {
		id       int64
		quantity int
		wantErr  error
	}{
		"zero is rejected":        {id: e.ID, quantity: 0, wantErr: ErrInvalidQuantity},
		"negative is rejected":    {id: e.ID, quantity: -1, wantErr: ErrInvalidQuantity},
		"unknown id":              {id: 404, quantity: 2, wantErr: ErrEntryNotFound},
		"invalid beats not found": {id: 404, quantity: 0, wantErr: ErrInvalidQuantity},
		"valid update":            {id: e.ID, quantity: 4},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := r.UpdateQuantity(ctx, tt.id, tt.quantity)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.quantity, got.Quantity)
		})
	}

	lines, err := r.List(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 4, lines[0].Quantity)
}

func TestInvalidQuantityIsValidationError(t *testing.T) {
	_, err := newRepo(t).UpdateQuantity(context.Background(), 1, 0)

	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "Quantity must be at least 1", apperr.MessageOf(err))
}

func TestRemoveMissingIsNotAnError(t *testing.T) {
	_, removed, err := newRepo(t).Remove(context.Background(), 12)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	for i := 0; i < 3; i++ {
		_, err := r.Add(ctx, "s1", 1, 1, nil)
		require.NoError(t, err)
	}
	_, err := r.Add(ctx, "s2", 5, 1, nil)
	require.NoError(t, err)

	n, err := r.Clear(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	lines, err := r.List(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, lines)

	n, err = r.Clear(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, n)

	lines, err = r.List(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, lines, 1)

	next, err := r.Add(ctx, "s1", 1, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), next.ID, "ids are not reused after clear")
}

func TestConcurrentAddsAreAdditive(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Add(ctx, "tabs", 5, 1, nil)
		}()
	}
	wg.Wait()

	lines, err := r.List(ctx, "tabs")
	require.NoError(t, err)
	assert.Len(t, lines, 50)
	assert.Equal(t, 50, Summarize(lines).ItemCount)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.ItemCount)
	assert.Equal(t, "0.00", pricing.Format(s.Subtotal))
	assert.Equal(t, "0.00", pricing.Format(s.BaseSubtotal))
}
