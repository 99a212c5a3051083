package pricing

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
)

// ParseSelections decodes the serialized form carried by cart entries, a JSON
// object of option type to value. Blank input means no selections.
func ParseSelections(s string) (Selections, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var raw map[string]string
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("parse selections: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(Selections, len(raw))
	for k, v := range raw {
		out[catalog.OptionType(k)] = v
	}
	return out, nil
}

// FormatSelections is the inverse of ParseSelections. Empty selections
// serialize to "".
func FormatSelections(sel Selections) string {
	if len(sel) == 0 {
		return ""
	}
	raw := make(map[string]string, len(sel))
	for k, v := range sel {
		raw[string(k)] = v
	}
	// map[string]string always marshals.
	b, _ := json.Marshal(raw)
	return string(b)
}

// Describe renders selections as "color: Blue, text: Hello", keys sorted.
func Describe(sel Selections) string {
	keys := make([]string, 0, len(sel))
	for k := range sel {
		keys = append(keys, string(k))
	}
	slices.Sort(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+sel[catalog.OptionType(k)])
	}
	return strings.Join(parts, ", ")
}
