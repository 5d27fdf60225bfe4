package domain

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// PriceEntry is a single price point of a product: a human quantity label
// ("3.5g", "1oz") and its price. The wire field is "qte" for historical
// compatibility with the public site.
type PriceEntry struct {
	Qty   string  `json:"qte"`
	Price float64 `json:"price"`
}

// Product is a single catalog item as stored under the menu key.
type Product struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Cat    string       `json:"cat"`
	Desc   string       `json:"desc,omitempty"`
	Effect string       `json:"effect,omitempty"`
	Aroma  string       `json:"aroma,omitempty"`
	THC    *float64     `json:"thclvl,omitempty"`
	Prices []PriceEntry `json:"prices,omitempty"`
	Img    string       `json:"img,omitempty"`
	Video  string       `json:"video,omitempty"`
}

// EnsureID assigns a fresh identifier when the product has none.
// Catalog entries written before identifiers existed get one lazily on load.
func (p *Product) EnsureID() bool {
	if p.ID != "" {
		return false
	}
	p.ID = uuid.NewString()
	return true
}

// ParsePrices parses a comma-separated "label:price" list. Tokens that do
// not match the shape or carry a non-numeric price are dropped silently,
// matching the forgiving input handling of the admin dialog.
func ParsePrices(input string) []PriceEntry {
	var out []PriceEntry
	for _, token := range strings.Split(input, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		i := strings.IndexByte(token, ':')
		if i <= 0 || i == len(token)-1 {
			continue
		}
		label := strings.TrimSpace(token[:i])
		price, err := cast.ToFloat64E(strings.TrimSpace(token[i+1:]))
		if err != nil || label == "" {
			continue
		}
		out = append(out, PriceEntry{Qty: label, Price: price})
	}
	return out
}

// FormatPrices renders price entries back to the "label:price" input form.
func FormatPrices(prices []PriceEntry) string {
	parts := make([]string, 0, len(prices))
	for _, p := range prices {
		parts = append(parts, fmt.Sprintf("%s:%s", p.Qty, trimFloat(p.Price)))
	}
	return strings.Join(parts, ", ")
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
