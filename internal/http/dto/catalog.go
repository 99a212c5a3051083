package dto

import (
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/pricing"
)

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Product carries money as fixed two-place decimal strings ("32.00").
type Product struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	Price          string    `json:"price"`
	CategoryID     *int64    `json:"categoryId"`
	ImageURL       string    `json:"imageUrl"`
	IsCustomizable bool      `json:"isCustomizable"`
	Rating         string    `json:"rating"`
	ReviewCount    int       `json:"reviewCount"`
	InStock        bool      `json:"inStock"`
	Tags           []string  `json:"tags"`
	Category       *Category `json:"category,omitempty"`
}

type ProductDetail struct {
	Product
	CustomizationOptions []CustomizationOption `json:"customizationOptions"`
}

type CustomizationOption struct {
	ID            int64    `json:"id"`
	ProductID     int64    `json:"productId"`
	Type          string   `json:"type"`
	Name          string   `json:"name"`
	Values        []string `json:"values"`
	PriceModifier string   `json:"priceModifier"`
}

func FromCategory(c catalog.Category) Category {
	return Category{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
	}
}

func FromCategories(cs []catalog.Category) []Category {
	out := make([]Category, 0, len(cs))
	for _, c := range cs {
		out = append(out, FromCategory(c))
	}
	return out
}

func FromProduct(p catalog.Product) Product {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return Product{
		ID:             p.ID,
		Name:           p.Name,
		Slug:           p.Slug,
		Description:    p.Description,
		Price:          pricing.Format(p.Price),
		CategoryID:     p.CategoryID,
		ImageURL:       p.ImageURL,
		IsCustomizable: p.Customizable,
		Rating:         p.Rating.String(),
		ReviewCount:    p.ReviewCount,
		InStock:        p.InStock,
		Tags:           tags,
	}
}

func FromProductWithCategory(p catalog.ProductWithCategory) Product {
	out := FromProduct(p.Product)
	if p.Category != nil {
		c := FromCategory(*p.Category)
		out.Category = &c
	}
	return out
}

func FromProducts(ps []catalog.ProductWithCategory) []Product {
	out := make([]Product, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromProductWithCategory(p))
	}
	return out
}

func FromProductDetail(p catalog.ProductDetail) ProductDetail {
	return ProductDetail{
		Product:              FromProductWithCategory(p.ProductWithCategory),
		CustomizationOptions: FromOptions(p.Options),
	}
}

func FromOptions(opts []catalog.CustomizationOption) []CustomizationOption {
	out := make([]CustomizationOption, 0, len(opts))
	for _, o := range opts {
		values := o.Values
		if values == nil {
			values = []string{}
		}
		out = append(out, CustomizationOption{
			ID:            o.ID,
			ProductID:     o.ProductID,
			Type:          string(o.Type),
			Name:          o.Name,
			Values:        values,
			PriceModifier: pricing.Format(o.PriceModifier),
		})
	}
	return out
}
