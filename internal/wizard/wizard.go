// Package wizard defines the ordered field sequence of the product dialog.
// The sequence and per-field rules live in one table used by both the create
// and edit flows; the dialog engine drives it with a single step cursor.
package wizard

import (
	"fmt"
	"strings"

	"menubot/internal/domain"

	"github.com/spf13/cast"
)

// Kind classifies how a field consumes input.
type Kind int

const (
	// Text fields take the message text verbatim; empty input keeps the value.
	Text Kind = iota
	// Number fields parse a single number; parse failure keeps the value.
	Number
	// Prices fields parse a "label:price, label:price" list.
	Prices
	// Image and Video fields take an attachment or a URL and are resolved by
	// the engine through the rehoster before Apply is called with the URL.
	Image
	// Video marks the video media field.
	Video
)

// Field describes one step of the product dialog.
type Field struct {
	Key  string
	Kind Kind
	// Label is the human name used in prompts.
	Label string
	// Current renders the draft's present value for the skip hint.
	Current func(p *domain.Product) string
	// Apply consumes validated input. For media kinds the input is the
	// rehosted URL.
	Apply func(p *domain.Product, input string)
}

var fields = []Field{
	{
		Key: "name", Kind: Text, Label: "name",
		Current: func(p *domain.Product) string { return p.Name },
		Apply:   func(p *domain.Product, in string) { p.Name = in },
	},
	{
		Key: "category", Kind: Text, Label: "category",
		Current: func(p *domain.Product) string { return p.Cat },
		Apply:   func(p *domain.Product, in string) { p.Cat = in },
	},
	{
		Key: "description", Kind: Text, Label: "description",
		Current: func(p *domain.Product) string { return p.Desc },
		Apply:   func(p *domain.Product, in string) { p.Desc = in },
	},
	{
		Key: "effect", Kind: Text, Label: "effect",
		Current: func(p *domain.Product) string { return p.Effect },
		Apply:   func(p *domain.Product, in string) { p.Effect = in },
	},
	{
		Key: "aroma", Kind: Text, Label: "aroma",
		Current: func(p *domain.Product) string { return p.Aroma },
		Apply:   func(p *domain.Product, in string) { p.Aroma = in },
	},
	{
		Key: "thclvl", Kind: Number, Label: "THC level (%)",
		Current: func(p *domain.Product) string {
			if p.THC == nil {
				return ""
			}
			return cast.ToString(*p.THC)
		},
		Apply: func(p *domain.Product, in string) {
			if v, err := cast.ToFloat64E(strings.TrimSpace(in)); err == nil {
				p.THC = &v
			}
		},
	},
	{
		Key: "prices", Kind: Prices, Label: "prices (label:price, comma-separated)",
		Current: func(p *domain.Product) string { return domain.FormatPrices(p.Prices) },
		Apply: func(p *domain.Product, in string) {
			p.Prices = domain.ParsePrices(in)
		},
	},
	{
		Key: "image", Kind: Image, Label: "image (photo or URL)",
		Current: func(p *domain.Product) string { return p.Img },
		Apply:   func(p *domain.Product, in string) { p.Img = in },
	},
	{
		Key: "video", Kind: Video, Label: "video (file or URL)",
		Current: func(p *domain.Product) string { return p.Video },
		Apply:   func(p *domain.Product, in string) { p.Video = in },
	},
}

// Count is the number of dialog steps.
func Count() int { return len(fields) }

// At returns the field for a step cursor.
func At(step int) (Field, bool) {
	if step < 0 || step >= len(fields) {
		return Field{}, false
	}
	return fields[step], true
}

// IsMedia reports whether the step consumes an attachment or URL.
func IsMedia(step int) bool {
	f, ok := At(step)
	return ok && (f.Kind == Image || f.Kind == Video)
}

// Prompt renders the question for a step, including the current draft value
// as the skip default when one is set.
func Prompt(step int, draft *domain.Product) string {
	f, ok := At(step)
	if !ok {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Step %d/%d: send the %s.", step+1, len(fields), f.Label)
	if cur := f.Current(draft); cur != "" {
		fmt.Fprintf(&b, "\nCurrent: %s", cur)
	}
	b.WriteString("\n/skip keeps the current value, /done saves, /cancel discards.")
	return b.String()
}

// ApplyText feeds message text into the step's field. Empty input and failed
// numeric parses keep the existing value; the caller advances the cursor
// regardless.
func ApplyText(step int, draft *domain.Product, text string) {
	f, ok := At(step)
	if !ok {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	f.Apply(draft, text)
}

// ApplyURL stores a resolved media URL into the step's field.
func ApplyURL(step int, draft *domain.Product, url string) {
	f, ok := At(step)
	if !ok || (f.Kind != Image && f.Kind != Video) {
		return
	}
	f.Apply(draft, url)
}
