package router

import (
	"time"

	tg "menubot/core/telegram"
	"menubot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// Conversation is the minimal interface for a multi-step dialog manager.
// Active reports whether the chat currently has a dialog in progress;
// text and media updates for active chats are routed to the manager.
type Conversation interface {
	Active(chatID int64) bool
	HandleText(c tele.Context) error
	HandleMedia(c tele.Context) error
}

// MessageOptions controls button and fallback behaviour for message updates.
type MessageOptions struct {
	// Buttons maps reply keyboard labels to their handlers. Button presses
	// take priority over an active dialog so the main menu always works.
	Buttons map[string]tele.HandlerFunc

	// Admin gates admin-only commands resolved through the registry here,
	// matching the wrap CommandRoutes applies to the registered endpoints.
	// Aliases and bare command words only reach the bot via this route.
	Admin middleware.AdminOptions

	UnknownText  tele.HandlerFunc
	UnknownMedia tele.HandlerFunc
}

// MessageRoutes builds handlers for text and media routing.
func MessageRoutes(conv Conversation, reg *tg.Registry, opts MessageOptions) []tg.Route {
	textHandler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if h, ok := opts.Buttons[text]; ok && h != nil {
			return handleWithSummary(c, "button."+normalizeHandlerName(text), start, "", "", func() error {
				return h(c)
			})
		}

		if conv != nil && c.Chat() != nil && conv.Active(c.Chat().ID) {
			return handleWithSummary(c, "dialog", start, "", "", func() error {
				return conv.HandleText(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				h := middleware.WithAdminCheck(opts.Admin, cmd.AdminOnly, cmd.Handler)
				return handleWithSummary(c, name, start, "", "", func() error {
					return h(c)
				})
			}
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	mediaHandler := func(c tele.Context) error {
		start := time.Now()
		if conv != nil && c.Chat() != nil && conv.Active(c.Chat().ID) {
			return handleWithSummary(c, "dialog_media", start, "", "", func() error {
				return conv.HandleMedia(c)
			})
		}
		if opts.UnknownMedia != nil {
			return handleWithSummary(c, "unexpected_media", start, "", "", func() error {
				return opts.UnknownMedia(c)
			})
		}
		logHandlerSummary(c, "unexpected_media", start, "skip", "ok", nil)
		return nil
	}

	wrap := func(h tele.HandlerFunc) tele.HandlerFunc {
		return middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
	}

	return []tg.Route{
		{Endpoint: tele.OnText, Handler: wrap(textHandler)},
		{Endpoint: tele.OnPhoto, Handler: wrap(mediaHandler)},
		{Endpoint: tele.OnVideo, Handler: wrap(mediaHandler)},
		{Endpoint: tele.OnDocument, Handler: wrap(mediaHandler)},
	}
}
