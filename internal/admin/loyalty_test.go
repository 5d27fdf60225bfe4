package admin

import (
	"testing"

	"menubot/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestLoyaltyToggle(t *testing.T) {
	cfg := domain.DefaultSiteConfig()

	res := Loyalty(&cfg, "on")
	assert.Equal(t, Applied, res.Kind)
	assert.True(t, cfg.Loyalty.Enabled)

	res = Loyalty(&cfg, "OFF")
	assert.Equal(t, Applied, res.Kind)
	assert.False(t, cfg.Loyalty.Enabled)
}

func TestLoyaltyThreshold(t *testing.T) {
	cfg := domain.DefaultSiteConfig()

	res := Loyalty(&cfg, "threshold 7")
	assert.Equal(t, Applied, res.Kind)
	assert.Equal(t, 7, cfg.Loyalty.RequiredOrders)

	for _, bad := range []string{"threshold 0", "threshold -3", "threshold abc", "threshold"} {
		res = Loyalty(&cfg, bad)
		assert.Equal(t, Invalid, res.Kind, bad)
		assert.Equal(t, 7, cfg.Loyalty.RequiredOrders, bad)
	}
}

func TestLoyaltyCounterOps(t *testing.T) {
	cfg := domain.DefaultSiteConfig()

	res := Loyalty(&cfg, "@alice +1")
	assert.Equal(t, Applied, res.Kind)
	assert.Equal(t, 1, cfg.Loyalty.Counter("alice"))

	res = Loyalty(&cfg, "@alice -1")
	assert.Equal(t, Applied, res.Kind)
	assert.Equal(t, 0, cfg.Loyalty.Counter("alice"))

	// Decrement from zero clamps, never negative.
	res = Loyalty(&cfg, "@alice -1")
	assert.Equal(t, Applied, res.Kind)
	assert.Equal(t, 0, cfg.Loyalty.Counter("alice"))

	res = Loyalty(&cfg, "@alice =5")
	assert.Equal(t, Applied, res.Kind)
	assert.Equal(t, 5, cfg.Loyalty.Counter("alice"))

	// A bare number sets the absolute value.
	res = Loyalty(&cfg, "@alice 12")
	assert.Equal(t, Applied, res.Kind)
	assert.Equal(t, 12, cfg.Loyalty.Counter("alice"))
}

func TestLoyaltyCounterQuery(t *testing.T) {
	cfg := domain.DefaultSiteConfig()
	cfg.Loyalty.SetCounter("bob", 4)

	res := Loyalty(&cfg, "@Bob ?")
	assert.Equal(t, Answer, res.Kind)
	assert.Contains(t, res.Reply, "4")
}

func TestLoyaltyHandleNormalization(t *testing.T) {
	cfg := domain.DefaultSiteConfig()

	Loyalty(&cfg, "@Alice +2")
	assert.Equal(t, 2, cfg.Loyalty.Counter("alice"))
}

func TestLoyaltyUnrecognized(t *testing.T) {
	cfg := domain.DefaultSiteConfig()

	for _, bad := range []string{"", "whatever", "@alice", "@alice *2", "@alice +x", "@ +1"} {
		res := Loyalty(&cfg, bad)
		assert.Equal(t, Invalid, res.Kind, bad)
	}
	assert.Empty(t, cfg.Loyalty.Counters)
}
