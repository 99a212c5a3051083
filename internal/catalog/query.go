package catalog

import (
	"cmp"
	"slices"
	"strings"
)

// SortKey orders query results. The values are the wire values of the sortBy
// query parameter.
type SortKey string

const (
	SortPopular   SortKey = "popular"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
)

// ParseSortKey maps a sortBy value to a SortKey. Unknown values fall back to
// SortPopular, which keeps insertion order.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.TrimSpace(s)); k {
	case SortPriceAsc, SortPriceDesc, SortRating, SortNewest:
		return k
	default:
		return SortPopular
	}
}

type Filter struct {
	CategoryID *int64
	Search     string
	Sort       SortKey
}

// Query filters then sorts the catalog. Sorting is stable, so equal keys keep
// insertion order.
func (c *Catalog) Query(f Filter) []ProductWithCategory {
	c.mu.RLock()
	defer c.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]ProductWithCategory, 0, len(c.products))
	for _, p := range c.products {
		if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
			continue
		}
		if needle != "" && !matches(p, needle) {
			continue
		}
		p.Tags = slices.Clone(p.Tags)
		out = append(out, c.withCategory(p))
	}

	if cmpFn := comparator(f.Sort); cmpFn != nil {
		slices.SortStableFunc(out, cmpFn)
	}
	return out
}

const DefaultFeaturedLimit = 8

// Featured returns the first limit products of the unfiltered catalog.
func (c *Catalog) Featured(limit int) []ProductWithCategory {
	all := c.Query(Filter{})
	if limit < 0 {
		limit = 0
	}
	if limit < len(all) {
		all = all[:limit]
	}
	return all
}

func matches(p Product, lowerNeedle string) bool {
	if containsFold(p.Name, lowerNeedle) || containsFold(p.Description, lowerNeedle) {
		return true
	}
	for _, tag := range p.Tags {
		if containsFold(tag, lowerNeedle) {
			return true
		}
	}
	return false
}

func comparator(k SortKey) func(a, b ProductWithCategory) int {
	switch k {
	case SortPriceAsc:
		return func(a, b ProductWithCategory) int { return a.Price.Cmp(b.Price) }
	case SortPriceDesc:
		return func(a, b ProductWithCategory) int { return b.Price.Cmp(a.Price) }
	case SortRating:
		return func(a, b ProductWithCategory) int { return b.Rating.Cmp(a.Rating) }
	case SortNewest:
		return func(a, b ProductWithCategory) int { return cmp.Compare(b.ID, a.ID) }
	default:
		return nil
	}
}
