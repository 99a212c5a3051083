// Package clients is a typed client for the storefront REST API. The cart
// session id is held client-side in a session.Storage.
package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/http/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/pricing"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/session"
)

type StorefrontClient struct {
	c        *Client
	sessions session.Storage
}

func NewStorefrontClient(c *Client, sessions session.Storage) *StorefrontClient {
	return &StorefrontClient{c: c, sessions: sessions}
}

// SessionID returns the cart session id, creating one on first use.
func (sc *StorefrontClient) SessionID() (string, error) {
	return session.GetOrCreate(sc.sessions)
}

type ProductQuery struct {
	CategoryID *int64
	Search     string
	SortBy     string
}

func (q ProductQuery) encode() string {
	v := url.Values{}
	if q.CategoryID != nil {
		v.Set("categoryId", strconv.FormatInt(*q.CategoryID, 10))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	return v.Encode()
}

func (sc *StorefrontClient) Categories(ctx context.Context) ([]dto.Category, error) {
	var out []dto.Category
	err := sc.c.doJSON(ctx, http.MethodGet, "/api/categories", "", nil, &out)
	return out, err
}

func (sc *StorefrontClient) Products(ctx context.Context, q ProductQuery) ([]dto.Product, error) {
	var out []dto.Product
	err := sc.c.doJSON(ctx, http.MethodGet, "/api/products", q.encode(), nil, &out)
	return out, err
}

func (sc *StorefrontClient) Featured(ctx context.Context, limit int) ([]dto.Product, error) {
	var out []dto.Product
	q := url.Values{"limit": []string{strconv.Itoa(limit)}}.Encode()
	err := sc.c.doJSON(ctx, http.MethodGet, "/api/products/featured", q, nil, &out)
	return out, err
}

func (sc *StorefrontClient) Product(ctx context.Context, slug string) (dto.ProductDetail, error) {
	var out dto.ProductDetail
	err := sc.c.doJSON(ctx, http.MethodGet, "/api/products/"+slug, "", nil, &out)
	return out, err
}

func (sc *StorefrontClient) Customization(ctx context.Context, productID int64) ([]dto.CustomizationOption, error) {
	var out []dto.CustomizationOption
	err := sc.c.doJSON(ctx, http.MethodGet, "/api/products/"+strconv.FormatInt(productID, 10)+"/customization", "", nil, &out)
	return out, err
}

func (sc *StorefrontClient) Cart(ctx context.Context) (dto.Cart, error) {
	sid, err := sc.SessionID()
	if err != nil {
		return dto.Cart{}, err
	}
	var out dto.Cart
	err = sc.c.doJSON(ctx, http.MethodGet, "/api/cart/"+sid, "", nil, &out)
	return out, err
}

type addToCartBody struct {
	SessionID     string `json:"sessionId"`
	ProductID     int64  `json:"productId"`
	Quantity      int    `json:"quantity"`
	Customization string `json:"customization,omitempty"`
}

// AddToCart adds a new line to the session's cart. Selections travel as a
// serialized JSON object string.
func (sc *StorefrontClient) AddToCart(ctx context.Context, productID int64, quantity int, sel pricing.Selections) (dto.CartItem, error) {
	sid, err := sc.SessionID()
	if err != nil {
		return dto.CartItem{}, err
	}
	body := addToCartBody{
		SessionID:     sid,
		ProductID:     productID,
		Quantity:      quantity,
		Customization: pricing.FormatSelections(sel),
	}
	var out dto.CartItem
	err = sc.c.doJSON(ctx, http.MethodPost, "/api/cart", "", body, &out)
	return out, err
}

func (sc *StorefrontClient) UpdateQuantity(ctx context.Context, itemID int64, quantity int) (dto.CartItem, error) {
	var out dto.CartItem
	err := sc.c.doJSON(ctx, http.MethodPut, "/api/cart/"+strconv.FormatInt(itemID, 10), "",
		dto.UpdateCartItemRequest{Quantity: &quantity}, &out)
	return out, err
}

func (sc *StorefrontClient) RemoveItem(ctx context.Context, itemID int64) error {
	return sc.c.doJSON(ctx, http.MethodDelete, "/api/cart/"+strconv.FormatInt(itemID, 10), "", nil, nil)
}

func (sc *StorefrontClient) ClearCart(ctx context.Context) error {
	sid, err := sc.SessionID()
	if err != nil {
		return err
	}
	return sc.c.doJSON(ctx, http.MethodDelete, "/api/cart/session/"+sid, "", nil, nil)
}

func (sc *StorefrontClient) Subscribe(ctx context.Context, email string) (dto.SubscribeResponse, error) {
	var out dto.SubscribeResponse
	err := sc.c.doJSON(ctx, http.MethodPost, "/api/newsletter/subscribe", "", dto.SubscribeRequest{Email: email}, &out)
	return out, err
}

func (sc *StorefrontClient) Testimonials(ctx context.Context, limit int) ([]dto.Testimonial, error) {
	var out []dto.Testimonial
	q := url.Values{"limit": []string{strconv.Itoa(limit)}}.Encode()
	err := sc.c.doJSON(ctx, http.MethodGet, "/api/testimonials", q, nil, &out)
	return out, err
}
