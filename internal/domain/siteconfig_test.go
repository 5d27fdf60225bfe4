package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidAccessCode(t *testing.T) {
	valid := []string{"1234", "ab", "secret_code_16ch", "A1"}
	for _, code := range valid {
		assert.True(t, ValidAccessCode(code), code)
	}

	invalid := []string{"", "a", "seventeen_chars_x", "with space", "dash-ed", "café"}
	for _, code := range invalid {
		assert.False(t, ValidAccessCode(code), code)
	}
}

func TestDefaultSiteConfig(t *testing.T) {
	cfg := DefaultSiteConfig()
	assert.Equal(t, DefaultAccessCode, cfg.AccessCode)
	assert.False(t, cfg.Loyalty.Enabled)
	assert.False(t, cfg.Promo.Enabled)
}

func TestValidPromoSpeed(t *testing.T) {
	assert.True(t, ValidPromoSpeed(10))
	assert.True(t, ValidPromoSpeed(200))
	assert.False(t, ValidPromoSpeed(9))
	assert.False(t, ValidPromoSpeed(201))
	assert.False(t, ValidPromoSpeed(-10))
}
