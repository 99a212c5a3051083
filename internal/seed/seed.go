// Package seed loads the storefront's initial catalog and testimonials from
// YAML. The default data set is embedded; a file can replace it at startup.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/pricing"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/testimonial"
)

//go:embed seed.yaml
var defaultSeed []byte

// Data mirrors the seed file. Money is kept as strings so it decodes
// without passing through float64.
type Data struct {
	Categories   []Category    `yaml:"categories"`
	Products     []Product     `yaml:"products"`
	Testimonials []Testimonial `yaml:"testimonials"`
}

type Category struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"imageUrl"`
}

type Product struct {
	Name         string   `yaml:"name"`
	Slug         string   `yaml:"slug"`
	Description  string   `yaml:"description"`
	Price        string   `yaml:"price"`
	Category     string   `yaml:"category"`
	ImageURL     string   `yaml:"imageUrl"`
	Customizable bool     `yaml:"customizable"`
	Rating       string   `yaml:"rating"`
	ReviewCount  int      `yaml:"reviewCount"`
	InStock      bool     `yaml:"inStock"`
	Tags         []string `yaml:"tags"`
	Options      []Option `yaml:"options"`
}

type Option struct {
	Type          string   `yaml:"type"`
	Name          string   `yaml:"name"`
	Values        []string `yaml:"values"`
	PriceModifier string   `yaml:"priceModifier"`
}

type Testimonial struct {
	Name    string `yaml:"name"`
	Email   string `yaml:"email"`
	Content string `yaml:"content"`
	Rating  int    `yaml:"rating"`
	Product string `yaml:"product"`
}

// TestimonialCreator is satisfied by testimonial.Repository.
type TestimonialCreator interface {
	Create(ctx context.Context, in testimonial.Input) (testimonial.Testimonial, error)
}

// Default returns the embedded data set.
func Default() (*Data, error) {
	return Decode(bytes.NewReader(defaultSeed))
}

// LoadFile reads a seed file from disk. An empty path yields Default().
func LoadFile(path string) (*Data, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

func Decode(r io.Reader) (*Data, error) {
	var d Data
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &d, nil
}

// Apply inserts d into cat and testimonials in file order, so ids follow the
// order of the file. Products and testimonials reference categories and
// products by slug.
func Apply(ctx context.Context, d *Data, cat *catalog.Catalog, testimonials TestimonialCreator) error {
	categoryIDs := make(map[string]int64, len(d.Categories))
	for _, c := range d.Categories {
		added, err := cat.AddCategory(catalog.Category{
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
			ImageURL:    c.ImageURL,
		})
		if err != nil {
			return fmt.Errorf("seed category: %w", err)
		}
		categoryIDs[c.Slug] = added.ID
	}

	productIDs := make(map[string]int64, len(d.Products))
	for _, p := range d.Products {
		added, err := addProduct(cat, p, categoryIDs)
		if err != nil {
			return err
		}
		productIDs[p.Slug] = added.ID
	}

	if testimonials == nil {
		return nil
	}
	for _, t := range d.Testimonials {
		in := testimonial.Input{
			Name:    t.Name,
			Email:   t.Email,
			Content: t.Content,
			Rating:  t.Rating,
		}
		if t.Product != "" {
			id, ok := productIDs[t.Product]
			if !ok {
				return fmt.Errorf("seed testimonial by %q: unknown product %q", t.Name, t.Product)
			}
			in.ProductID = &id
		}
		if _, err := testimonials.Create(ctx, in); err != nil {
			return fmt.Errorf("seed testimonial by %q: %w", t.Name, err)
		}
	}
	return nil
}

func addProduct(cat *catalog.Catalog, p Product, categoryIDs map[string]int64) (catalog.Product, error) {
	price, err := pricing.ParseAmount(p.Price)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("seed product %q: %w", p.Slug, err)
	}
	rating, err := pricing.ParseAmount(p.Rating)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("seed product %q rating: %w", p.Slug, err)
	}

	prod := catalog.Product{
		Name:         p.Name,
		Slug:         p.Slug,
		Description:  p.Description,
		Price:        price,
		ImageURL:     p.ImageURL,
		Customizable: p.Customizable,
		Rating:       rating,
		ReviewCount:  p.ReviewCount,
		InStock:      p.InStock,
		Tags:         p.Tags,
	}
	if p.Category != "" {
		id, ok := categoryIDs[p.Category]
		if !ok {
			return catalog.Product{}, fmt.Errorf("seed product %q: unknown category %q", p.Slug, p.Category)
		}
		prod.CategoryID = &id
	}

	added, err := cat.AddProduct(prod)
	if err != nil {
		return catalog.Product{}, fmt.Errorf("seed product: %w", err)
	}

	for _, o := range p.Options {
		mod, err := pricing.ParseAmount(o.PriceModifier)
		if err != nil {
			return catalog.Product{}, fmt.Errorf("seed option %q of %q: %w", o.Name, p.Slug, err)
		}
		if _, err := cat.AddOption(catalog.CustomizationOption{
			ProductID:     added.ID,
			Type:          catalog.OptionType(o.Type),
			Name:          o.Name,
			Values:        o.Values,
			PriceModifier: mod,
		}); err != nil {
			return catalog.Product{}, fmt.Errorf("seed option: %w", err)
		}
	}
	return added, nil
}
