package admin

import (
	"fmt"
	"strings"

	"menubot/internal/domain"

	"github.com/spf13/cast"
)

const promoHint = "Promo commands:\n" +
	"on | off\n" +
	"text <banner text>\n" +
	"speed N (10-200)"

// Promo executes one promo admin command against the config.
func Promo(cfg *domain.SiteConfig, input string) Result {
	input = strings.TrimSpace(input)
	verb, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(verb) {
	case "on":
		cfg.Promo.Enabled = true
		return applied("Promo banner enabled.")
	case "off":
		cfg.Promo.Enabled = false
		return applied("Promo banner disabled.")
	case "text":
		if rest == "" {
			return invalid("Usage: text <banner text>")
		}
		cfg.Promo.Text = rest
		return applied("Promo text updated.")
	case "speed":
		n, err := cast.ToIntE(rest)
		if err != nil || !domain.ValidPromoSpeed(n) {
			return invalid(fmt.Sprintf("Speed must be a number between %d and %d.",
				domain.PromoSpeedMin, domain.PromoSpeedMax))
		}
		cfg.Promo.ScrollSpeed = n
		return applied(fmt.Sprintf("Scroll speed set to %d.", n))
	}
	return invalid(promoHint)
}
