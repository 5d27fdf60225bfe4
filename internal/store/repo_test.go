package store

import (
	"context"
	"testing"

	"menubot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogLoadEmpty(t *testing.T) {
	cat := NewCatalog(NewMemory())
	products, err := cat.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCatalogRoundTrip(t *testing.T) {
	cat := NewCatalog(NewMemory())
	ctx := context.Background()

	in := []domain.Product{
		{ID: "a", Name: "OG Kush", Cat: "indica"},
		{ID: "b", Name: "Sour Diesel", Cat: "sativa", Prices: []domain.PriceEntry{{Qty: "3.5g", Price: 25}}},
	}
	require.NoError(t, cat.Save(ctx, in))

	out, err := cat.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCatalogAssignsMissingIDs(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, KeyMenu, []byte(`[{"name":"Legacy","cat":"hybrid"}]`)))

	cat := NewCatalog(mem)
	products, err := cat.Load(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.NotEmpty(t, products[0].ID)

	// The repaired list is persisted, so a second load sees the same ID.
	again, err := cat.Load(ctx)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, products[0].ID, again[0].ID)
}

func TestCatalogMalformedYieldsEmpty(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, KeyMenu, []byte(`{"not":"a list"`)))

	cat := NewCatalog(mem)
	products, err := cat.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestConfigDefaults(t *testing.T) {
	cfg := NewConfig(NewMemory())
	got, err := cfg.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAccessCode, got.AccessCode)
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := NewConfig(NewMemory())
	ctx := context.Background()

	in := domain.SiteConfig{
		AccessCode: "sesame",
		Loyalty:    domain.LoyaltyConfig{Enabled: true, RequiredOrders: 7},
		Promo:      domain.PromoConfig{Enabled: true, Text: "2 for 1", ScrollSpeed: 40},
	}
	require.NoError(t, cfg.Save(ctx, in))

	got, err := cfg.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestConfigEmptyAccessCodeFallsBack(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, KeySiteConfig, []byte(`{"access_code":""}`)))

	got, err := NewConfig(mem).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAccessCode, got.AccessCode)
}

func TestStateLifecycle(t *testing.T) {
	st := NewState(NewMemory())
	ctx := context.Background()

	idle, err := st.Load(ctx, 42)
	require.NoError(t, err)
	assert.False(t, idle.Active())

	in := domain.DialogState{Mode: domain.ModeProduct, Submode: domain.SubmodeCreate, Step: 3}
	require.NoError(t, st.Save(ctx, 42, in))

	got, err := st.Load(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, in, got)
	assert.True(t, got.Active())

	require.NoError(t, st.Clear(ctx, 42))
	cleared, err := st.Load(ctx, 42)
	require.NoError(t, err)
	assert.False(t, cleared.Active())
}

func TestLoyaltyCounters(t *testing.T) {
	loy := NewLoyalty(NewMemory())
	ctx := context.Background()

	n, err := loy.Count(ctx, "@Alice")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, loy.SetCount(ctx, "@Alice", 3))

	// Handle lookup is case-insensitive and @-insensitive.
	n, err = loy.Count(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, loy.SetCount(ctx, "alice", -5))
	n, err = loy.Count(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestFindByID(t *testing.T) {
	products := []domain.Product{{ID: "a"}, {ID: "b"}}
	i, ok := FindByID(products, "b")
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = FindByID(products, "zzz")
	assert.False(t, ok)
}
