package bot

import (
	"menubot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// Main menu button labels. The labels double as routing keys for text
// updates, so they must stay unique.
const (
	BtnAdd        = "➕ Add product"
	BtnEdit       = "✏️ Edit product"
	BtnDelete     = "🗑 Delete product"
	BtnAccessCode = "🔑 Access code"
	BtnWelcome    = "👋 Welcome text"
	BtnInfo       = "ℹ️ Info text"
	BtnLoyalty    = "🎁 Loyalty"
	BtnPromo      = "📣 Promo"
)

const (
	textWelcome = "Catalog admin console. Pick an action from the keyboard below."
	textDenied  = "This bot manages a private catalog. Access denied."
	textStorage = "Storage error, the change was not saved. Try again."
)

func mainKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons([][]string{
		{BtnAdd},
		{BtnEdit, BtnDelete},
		{BtnAccessCode},
		{BtnWelcome, BtnInfo},
		{BtnLoyalty, BtnPromo},
	})
}
