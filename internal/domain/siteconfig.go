package domain

import "regexp"

// DefaultAccessCode protects the public site when no code was configured yet.
const DefaultAccessCode = "1234"

var accessCodeRe = regexp.MustCompile(`^\w{2,16}$`)

// ValidAccessCode reports whether a candidate site access code is acceptable:
// 2 to 16 word characters.
func ValidAccessCode(code string) bool {
	return accessCodeRe.MatchString(code)
}

// LoyaltyConfig controls the order-counting loyalty program shown on the site.
type LoyaltyConfig struct {
	Enabled bool `json:"enabled"`
	// RequiredOrders is the order count needed for a reward; 0 means the
	// deployment-level fallback threshold applies.
	RequiredOrders int `json:"required_orders,omitempty"`
	// Counters maps normalized user handles to their order counts as
	// maintained through the loyalty admin dialog. Never negative.
	Counters map[string]int `json:"per_user_counters,omitempty"`
}

// Counter returns the counter for a handle, zero when absent.
func (l *LoyaltyConfig) Counter(handle string) int {
	return l.Counters[handle]
}

// SetCounter stores a counter value clamped at zero, allocating the map lazily.
func (l *LoyaltyConfig) SetCounter(handle string, value int) {
	if value < 0 {
		value = 0
	}
	if l.Counters == nil {
		l.Counters = make(map[string]int)
	}
	l.Counters[handle] = value
}

// PromoConfig controls the scrolling promo banner on the site.
type PromoConfig struct {
	Enabled bool   `json:"enabled"`
	Text    string `json:"text,omitempty"`
	// ScrollSpeed is the banner scroll speed, accepted range 10 to 200.
	ScrollSpeed int `json:"scroll_speed,omitempty"`
}

// SiteConfig is the site-wide configuration stored under the site_config key.
type SiteConfig struct {
	AccessCode string        `json:"access_code"`
	Welcome    string        `json:"welcome,omitempty"`
	Info       string        `json:"info,omitempty"`
	Loyalty    LoyaltyConfig `json:"loyalty"`
	Promo      PromoConfig   `json:"promo"`
}

// Text keys settable through the config dialog.
const (
	ConfigKeyAccessCode = "access_code"
	ConfigKeyWelcome    = "welcome"
	ConfigKeyInfo       = "info"
)

// DefaultSiteConfig returns the configuration used when the store holds
// nothing or holds data that cannot be decoded.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{AccessCode: DefaultAccessCode}
}

const (
	// PromoSpeedMin and PromoSpeedMax bound the accepted scroll speed.
	PromoSpeedMin = 10
	PromoSpeedMax = 200
)

// ValidPromoSpeed reports whether a scroll speed is inside the accepted range.
func ValidPromoSpeed(speed int) bool {
	return speed >= PromoSpeedMin && speed <= PromoSpeedMax
}
