package admin

import (
	"testing"

	"menubot/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestPromoToggle(t *testing.T) {
	cfg := domain.DefaultSiteConfig()

	res := Promo(&cfg, "on")
	assert.Equal(t, Applied, res.Kind)
	assert.True(t, cfg.Promo.Enabled)

	res = Promo(&cfg, "off")
	assert.Equal(t, Applied, res.Kind)
	assert.False(t, cfg.Promo.Enabled)
}

func TestPromoText(t *testing.T) {
	cfg := domain.DefaultSiteConfig()

	res := Promo(&cfg, "text 2 for 1 on all edibles")
	assert.Equal(t, Applied, res.Kind)
	assert.Equal(t, "2 for 1 on all edibles", cfg.Promo.Text)

	res = Promo(&cfg, "text")
	assert.Equal(t, Invalid, res.Kind)
	assert.Equal(t, "2 for 1 on all edibles", cfg.Promo.Text)
}

func TestPromoSpeedRange(t *testing.T) {
	cfg := domain.DefaultSiteConfig()

	res := Promo(&cfg, "speed 40")
	assert.Equal(t, Applied, res.Kind)
	assert.Equal(t, 40, cfg.Promo.ScrollSpeed)

	for _, bad := range []string{"speed 9", "speed 201", "speed fast", "speed"} {
		res = Promo(&cfg, bad)
		assert.Equal(t, Invalid, res.Kind, bad)
		assert.Equal(t, 40, cfg.Promo.ScrollSpeed, bad)
	}
}

func TestPromoUnrecognized(t *testing.T) {
	cfg := domain.DefaultSiteConfig()
	res := Promo(&cfg, "banner wat")
	assert.Equal(t, Invalid, res.Kind)
}
