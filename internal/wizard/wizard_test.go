package wizard

import (
	"strings"
	"testing"

	"menubot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepFor(t *testing.T, key string) int {
	t.Helper()
	for i := 0; i < Count(); i++ {
		f, _ := At(i)
		if f.Key == key {
			return i
		}
	}
	t.Fatalf("no field %q", key)
	return -1
}

func TestFieldOrder(t *testing.T) {
	want := []string{"name", "category", "description", "effect", "aroma", "thclvl", "prices", "image", "video"}
	require.Equal(t, len(want), Count())
	for i, key := range want {
		f, ok := At(i)
		require.True(t, ok)
		assert.Equal(t, key, f.Key)
	}
}

func TestApplyTextSetsAndKeeps(t *testing.T) {
	var p domain.Product

	ApplyText(stepFor(t, "name"), &p, "OG Kush")
	assert.Equal(t, "OG Kush", p.Name)

	// Empty input keeps the existing value.
	ApplyText(stepFor(t, "name"), &p, "   ")
	assert.Equal(t, "OG Kush", p.Name)
}

func TestApplyNumberKeepsOnParseFailure(t *testing.T) {
	var p domain.Product
	step := stepFor(t, "thclvl")

	ApplyText(step, &p, "21.5")
	require.NotNil(t, p.THC)
	assert.Equal(t, 21.5, *p.THC)

	ApplyText(step, &p, "strong")
	require.NotNil(t, p.THC)
	assert.Equal(t, 21.5, *p.THC)
}

func TestApplyPrices(t *testing.T) {
	var p domain.Product
	step := stepFor(t, "prices")

	ApplyText(step, &p, "1g:10,2g:18,bad")
	require.Len(t, p.Prices, 2)
	assert.Equal(t, domain.PriceEntry{Qty: "1g", Price: 10}, p.Prices[0])

	// Fully unparseable input yields an empty list, not an error.
	ApplyText(step, &p, "garbage")
	assert.Empty(t, p.Prices)
}

func TestApplyURLOnlyMediaSteps(t *testing.T) {
	var p domain.Product

	ApplyURL(stepFor(t, "image"), &p, "https://files.example.com/a.jpg")
	assert.Equal(t, "https://files.example.com/a.jpg", p.Img)

	ApplyURL(stepFor(t, "video"), &p, "https://files.example.com/a.mp4")
	assert.Equal(t, "https://files.example.com/a.mp4", p.Video)

	// Non-media steps ignore URL application.
	ApplyURL(stepFor(t, "name"), &p, "https://files.example.com/x")
	assert.Empty(t, p.Name)
}

func TestIsMedia(t *testing.T) {
	assert.True(t, IsMedia(stepFor(t, "image")))
	assert.True(t, IsMedia(stepFor(t, "video")))
	assert.False(t, IsMedia(stepFor(t, "prices")))
	assert.False(t, IsMedia(-1))
	assert.False(t, IsMedia(Count()))
}

func TestPromptShowsCurrentValue(t *testing.T) {
	p := domain.Product{Name: "OG Kush"}
	prompt := Prompt(stepFor(t, "name"), &p)
	assert.Contains(t, prompt, "Current: OG Kush")
	assert.Contains(t, prompt, "/skip")

	empty := Prompt(stepFor(t, "category"), &p)
	assert.False(t, strings.Contains(empty, "Current:"))
}
