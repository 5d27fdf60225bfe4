package admin

import (
	"fmt"
	"strings"

	"menubot/internal/domain"
	"menubot/internal/store"

	"github.com/spf13/cast"
)

const loyaltyHint = "Loyalty commands:\n" +
	"on | off\n" +
	"threshold N\n" +
	"@user +N | -N | =N | N | ?"

// Loyalty executes one loyalty admin command against the config.
func Loyalty(cfg *domain.SiteConfig, input string) Result {
	tokens := strings.Fields(strings.TrimSpace(input))
	if len(tokens) == 0 {
		return invalid(loyaltyHint)
	}

	switch strings.ToLower(tokens[0]) {
	case "on":
		cfg.Loyalty.Enabled = true
		return applied("Loyalty program enabled.")
	case "off":
		cfg.Loyalty.Enabled = false
		return applied("Loyalty program disabled.")
	case "threshold":
		if len(tokens) != 2 {
			return invalid(loyaltyHint)
		}
		n, err := cast.ToIntE(tokens[1])
		if err != nil || n < 1 {
			return invalid("Threshold must be a positive integer.")
		}
		cfg.Loyalty.RequiredOrders = n
		return applied(fmt.Sprintf("Reward threshold set to %d orders.", n))
	}

	if strings.HasPrefix(tokens[0], "@") {
		return loyaltyCounter(cfg, tokens)
	}
	return invalid(loyaltyHint)
}

func loyaltyCounter(cfg *domain.SiteConfig, tokens []string) Result {
	handle := store.NormalizeHandle(tokens[0])
	if handle == "" || len(tokens) != 2 {
		return invalid(loyaltyHint)
	}

	op := tokens[1]
	current := cfg.Loyalty.Counter(handle)

	if op == "?" {
		return answer(fmt.Sprintf("@%s has %d orders.", handle, current))
	}

	sign := byte(0)
	numPart := op
	if op[0] == '+' || op[0] == '-' || op[0] == '=' {
		sign = op[0]
		numPart = op[1:]
	}
	n, err := cast.ToIntE(numPart)
	if err != nil || n < 0 {
		return invalid(loyaltyHint)
	}

	switch sign {
	case '+':
		current += n
	case '-':
		current -= n
		if current < 0 {
			current = 0
		}
	default: // '=' and the bare number both set the absolute value
		current = n
	}
	cfg.Loyalty.SetCounter(handle, current)
	return applied(fmt.Sprintf("@%s now has %d orders.", handle, current))
}
