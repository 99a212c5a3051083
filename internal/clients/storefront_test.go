package clients

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/newsletter"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/pricing"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/seed"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/testimonial"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	data, err := seed.Default()
	require.NoError(t, err)
	cat := catalog.New()
	reviews := testimonial.NewMemoryRepository(cat)
	require.NoError(t, seed.Apply(context.Background(), data, cat, reviews))

	srv := httptest.NewServer(httpapi.NewRouter(httpapi.Deps{
		Logger:           log.New(io.Discard, "", 0),
		Catalog:          cat,
		Cart:             cart.NewMemoryRepository(cat),
		Newsletter:       newsletter.NewMemoryRepository(),
		Testimonials:     reviews,
		CORSAllowOrigins: []string{"*"},
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newStorefront(t *testing.T, baseURL string, storage session.Storage) *StorefrontClient {
	t.Helper()
	base, err := NewClient("storefront", baseURL, NewTracedHTTPClient(nil))
	require.NoError(t, err)
	return NewStorefrontClient(base, storage)
}

func TestStorefrontCartFlow(t *testing.T) {
	ctx := context.Background()
	storage := session.NewMemoryStorage()
	sc := newStorefront(t, newServer(t).URL, storage)

	item, err := sc.AddToCart(ctx, 1, 1, pricing.Selections{catalog.OptionText: "Hello"})
	require.NoError(t, err)
	require.NotNil(t, item.Customization)

	sid, err := storage.Get(session.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, sid, item.SessionID)

	_, err = sc.AddToCart(ctx, 1, 1, nil)
	require.NoError(t, err)

	c, err := sc.Cart(ctx)
	require.NoError(t, err)
	assert.Equal(t, sid, c.SessionID)
	assert.Len(t, c.Items, 2)
	assert.Equal(t, "69.00", c.Subtotal)
	assert.Equal(t, "64.00", c.BaseSubtotal)

	updated, err := sc.UpdateQuantity(ctx, item.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)

	_, err = sc.UpdateQuantity(ctx, item.ID, 0)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Quantity must be at least 1", apiErr.Message)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, sc.RemoveItem(ctx, item.ID))
	assert.ErrorIs(t, sc.RemoveItem(ctx, item.ID), apperr.ErrNotFound)

	require.NoError(t, sc.ClearCart(ctx))
	c, err = sc.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestStorefrontCatalog(t *testing.T) {
	ctx := context.Background()
	sc := newStorefront(t, newServer(t).URL, session.NewMemoryStorage())

	cats, err := sc.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 4)

	pottery := cats[0].ID
	ps, err := sc.Products(ctx, ProductQuery{CategoryID: &pottery, SortBy: "price_desc"})
	require.NoError(t, err)
	require.Len(t, ps, 3)
	assert.Equal(t, "soy-wax-candle-set", ps[0].Slug)

	featured, err := sc.Featured(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, featured, 3)

	p, err := sc.Product(ctx, "silver-pendant-necklace")
	require.NoError(t, err)
	assert.Len(t, p.CustomizationOptions, 2)

	_, err = sc.Product(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	opts, err := sc.Customization(ctx, 6)
	require.NoError(t, err)
	assert.Len(t, opts, 2)

	ts, err := sc.Testimonials(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, ts, 2)
}

func TestStorefrontSubscribe(t *testing.T) {
	ctx := context.Background()
	sc := newStorefront(t, newServer(t).URL, session.NewMemoryStorage())

	resp, err := sc.Subscribe(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", resp.Subscription.Email)

	_, err = sc.Subscribe(ctx, "reader@example.com")
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestDoPropagatesCorrelationID(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(middleware.HeaderCorrelationID)
		assert.Equal(t, "/prefix/api/categories", r.URL.Path)
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	base, err := NewClient("storefront", srv.URL+"/prefix", srv.Client())
	require.NoError(t, err)
	ctx := middleware.WithCorrelationID(context.Background(), "cid-7")

	_, err = NewStorefrontClient(base, session.NewMemoryStorage()).Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cid-7", got)
}

func TestAPIErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	base, err := NewClient("storefront", srv.URL, srv.Client())
	require.NoError(t, err)

	_, err = NewStorefrontClient(base, session.NewMemoryStorage()).Categories(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "storefront api: status 502", apiErr.Error())
}
