// Package pricing computes customization-aware prices. All arithmetic is done
// in shopspring/decimal; binary floats never touch money.
package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

// Places is the number of decimal places money is rounded to for display.
const Places = 2

// Selections maps an option type to the value the customer chose.
type Selections map[catalog.OptionType]string

// ComputeTotal returns base plus the modifier of every selected option, each
// applied once. Selections naming a type absent from options are ignored, as
// are selections with an empty value.
func ComputeTotal(base decimal.Decimal, selections Selections, options []catalog.CustomizationOption) decimal.Decimal {
	total := base
	for optType, value := range selections {
		// The customization modal only charges for options with a non-empty value.
		if value == "" {
			continue
		}
		opt, ok := find(options, optType)
		if !ok || opt.PriceModifier.IsZero() {
			continue
		}
		total = total.Add(opt.PriceModifier)
	}
	return total.Round(Places)
}

// LineTotal is unit × quantity rounded for display.
func LineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(quantity))).Round(Places)
}

// ParseAmount parses a signed decimal string such as "5.00" or "-1.5"
// without loss. An empty string is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}

// Format renders an amount with exactly two decimal places.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

func find(options []catalog.CustomizationOption, t catalog.OptionType) (catalog.CustomizationOption, bool) {
	for _, o := range options {
		if o.Type == t {
			return o, true
		}
	}
	return catalog.CustomizationOption{}, false
}
