package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyButtonsLayout(t *testing.T) {
	rm := ReplyButtons([][]string{
		{"One"},
		{"Two", "Three"},
	})

	require.Len(t, rm.ReplyKeyboard, 2)
	require.Len(t, rm.ReplyKeyboard[1], 2)
	assert.True(t, rm.ResizeKeyboard)
	assert.Equal(t, "One", rm.ReplyKeyboard[0][0].Text)
	assert.Equal(t, "Three", rm.ReplyKeyboard[1][1].Text)
}

func TestInlineRowsKeepsCallbackData(t *testing.T) {
	rm := InlineRows([][]InlineBtn{
		{{Text: "Edit", Data: "edit|abc-123"}},
		{{Text: "Yes", Data: "confirmdel|abc-123"}, {Text: "No", Data: "canceldel|abc-123"}},
	})

	require.Len(t, rm.InlineKeyboard, 2)
	require.Len(t, rm.InlineKeyboard[0], 1)
	require.Len(t, rm.InlineKeyboard[1], 2)

	assert.Equal(t, "Edit", rm.InlineKeyboard[0][0].Text)
	assert.Equal(t, "edit|abc-123", rm.InlineKeyboard[0][0].Data)
	assert.Equal(t, "canceldel|abc-123", rm.InlineKeyboard[1][1].Data)
	// No Unique means telebot sends Data as-is, which the callback
	// key|payload split depends on.
	assert.Empty(t, rm.InlineKeyboard[0][0].Unique)
}

func TestRemoveKeyboard(t *testing.T) {
	assert.True(t, RemoveKeyboard().RemoveKeyboard)
}
