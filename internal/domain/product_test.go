package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrices(t *testing.T) {
	got := ParsePrices("3.5g:25, 7g:45.5")
	require.Len(t, got, 2)
	assert.Equal(t, PriceEntry{Qty: "3.5g", Price: 25}, got[0])
	assert.Equal(t, PriceEntry{Qty: "7g", Price: 45.5}, got[1])
}

func TestParsePricesDropsBadTokens(t *testing.T) {
	got := ParsePrices("3.5g:25, nocolon, :5, 7g:, 1oz:abc, 14g:80")
	require.Len(t, got, 2)
	assert.Equal(t, "3.5g", got[0].Qty)
	assert.Equal(t, "14g", got[1].Qty)
}

func TestParsePricesEmpty(t *testing.T) {
	assert.Empty(t, ParsePrices(""))
	assert.Empty(t, ParsePrices("  ,  , "))
}

func TestParsePricesFirstColonSplits(t *testing.T) {
	// The first colon separates label from price; a second colon makes the
	// numeric part unparseable and the token is dropped.
	got := ParsePrices("promo:3.5g:20, 1g:10")
	require.Len(t, got, 1)
	assert.Equal(t, "1g", got[0].Qty)
	assert.Equal(t, 10.0, got[0].Price)
}

func TestFormatPricesRoundTrip(t *testing.T) {
	in := []PriceEntry{{Qty: "3.5g", Price: 25}, {Qty: "7g", Price: 45.5}}
	formatted := FormatPrices(in)
	assert.Equal(t, "3.5g:25, 7g:45.5", formatted)
	assert.Equal(t, in, ParsePrices(formatted))
}

func TestEnsureID(t *testing.T) {
	p := Product{Name: "OG Kush"}
	assert.True(t, p.EnsureID())
	require.NotEmpty(t, p.ID)

	id := p.ID
	assert.False(t, p.EnsureID())
	assert.Equal(t, id, p.ID)
}
