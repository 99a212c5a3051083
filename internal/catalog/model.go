package catalog

import "github.com/shopspring/decimal"

type Category struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	ImageURL    string
}

type Product struct {
	ID           int64
	Name         string
	Slug         string
	Description  string
	Price        decimal.Decimal
	CategoryID   *int64
	ImageURL     string
	Customizable bool
	Rating       decimal.Decimal
	ReviewCount  int
	InStock      bool
	Tags         []string
}

// OptionType names a customization axis. The set is open; these are the
// types the storefront ships with.
type OptionType string

const (
	OptionColor OptionType = "color"
	OptionSize  OptionType = "size"
	OptionText  OptionType = "text"
	OptionFont  OptionType = "font"
	OptionScent OptionType = "scent"
)

// CustomizationOption is one personalization axis of a product. PriceModifier
// is a flat delta applied once when the option is selected, whatever the value.
type CustomizationOption struct {
	ID            int64
	ProductID     int64
	Type          OptionType
	Name          string
	Values        []string
	PriceModifier decimal.Decimal
}

type ProductWithCategory struct {
	Product
	Category *Category
}

type ProductDetail struct {
	ProductWithCategory
	Options []CustomizationOption
}
