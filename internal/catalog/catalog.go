// Package catalog holds the read-mostly product catalog: categories, products
// and their customization options, plus the filter/sort query layer.
package catalog

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
)

var (
	ErrCategoryNotFound = fmt.Errorf("category %w", apperr.ErrNotFound)
	ErrProductNotFound  = fmt.Errorf("product %w", apperr.ErrNotFound)
	ErrDuplicateSlug    = fmt.Errorf("slug %w", apperr.ErrConflict)
)

// Catalog stores each collection as an arena: entity id N lives at index N-1,
// ids are assigned in insertion order and never reused.
type Catalog struct {
	mu         sync.RWMutex
	categories []Category
	products   []Product
	options    []CustomizationOption
}

func New() *Catalog {
	return &Catalog{}
}

// AddCategory assigns the next category id and stores cat.
func (c *Catalog) AddCategory(cat Category) (Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.categories {
		if existing.Slug == cat.Slug {
			return Category{}, fmt.Errorf("category %q: %w", cat.Slug, ErrDuplicateSlug)
		}
	}
	cat.ID = int64(len(c.categories) + 1)
	c.categories = append(c.categories, cat)
	return cat, nil
}

// AddProduct assigns the next product id and stores p. The category, when
// set, must already exist.
func (c *Catalog) AddProduct(p Product) (Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p.CategoryID != nil {
		if _, ok := c.category(*p.CategoryID); !ok {
			return Product{}, fmt.Errorf("product %q: %w", p.Slug, ErrCategoryNotFound)
		}
	}
	for _, existing := range c.products {
		if existing.Slug == p.Slug {
			return Product{}, fmt.Errorf("product %q: %w", p.Slug, ErrDuplicateSlug)
		}
	}
	p.ID = int64(len(c.products) + 1)
	p.Tags = slices.Clone(p.Tags)
	c.products = append(c.products, p)
	return p, nil
}

// AddOption attaches a customization option to an existing product.
func (c *Catalog) AddOption(o CustomizationOption) (CustomizationOption, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.product(o.ProductID); !ok {
		return CustomizationOption{}, fmt.Errorf("option %q for product %d: %w", o.Name, o.ProductID, ErrProductNotFound)
	}
	o.ID = int64(len(c.options) + 1)
	o.Values = slices.Clone(o.Values)
	c.options = append(c.options, o)
	return o, nil
}

func (c *Catalog) Categories() []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.categories)
}

func (c *Catalog) CategoryBySlug(slug string) (Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, cat := range c.categories {
		if cat.Slug == slug {
			return cat, nil
		}
	}
	return Category{}, ErrCategoryNotFound
}

// Product returns the product with its category and customization options.
func (c *Catalog) Product(id int64) (ProductDetail, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.product(id)
	if !ok {
		return ProductDetail{}, ErrProductNotFound
	}
	return c.detail(p), nil
}

func (c *Catalog) ProductBySlug(slug string) (ProductDetail, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.products {
		if p.Slug == slug {
			return c.detail(p), nil
		}
	}
	return ProductDetail{}, ErrProductNotFound
}

// OptionsFor returns productID's options in insertion order. A product with no
// options, or no product at all, yields an empty slice rather than an error.
func (c *Catalog) OptionsFor(productID int64) []CustomizationOption {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.optionsFor(productID)
}

func (c *Catalog) optionsFor(productID int64) []CustomizationOption {
	out := []CustomizationOption{}
	for _, o := range c.options {
		if o.ProductID == productID {
			o.Values = slices.Clone(o.Values)
			out = append(out, o)
		}
	}
	return out
}

func (c *Catalog) product(id int64) (Product, bool) {
	if id < 1 || id > int64(len(c.products)) {
		return Product{}, false
	}
	p := c.products[id-1]
	p.Tags = slices.Clone(p.Tags)
	return p, true
}

func (c *Catalog) category(id int64) (Category, bool) {
	if id < 1 || id > int64(len(c.categories)) {
		return Category{}, false
	}
	return c.categories[id-1], true
}

func (c *Catalog) withCategory(p Product) ProductWithCategory {
	out := ProductWithCategory{Product: p}
	if p.CategoryID != nil {
		if cat, ok := c.category(*p.CategoryID); ok {
			out.Category = &cat
		}
	}
	return out
}

func (c *Catalog) detail(p Product) ProductDetail {
	return ProductDetail{
		ProductWithCategory: c.withCategory(p),
		Options:             c.optionsFor(p.ID),
	}
}

func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}
