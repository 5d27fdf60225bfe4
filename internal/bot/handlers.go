package bot

import (
	"fmt"

	tg "menubot/core/telegram"
	"menubot/core/telegram/commands"
	tghelpers "menubot/core/telegram/helpers"
	"menubot/core/telegram/middleware"
	"menubot/internal/domain"
	"menubot/internal/engine"

	tele "gopkg.in/telebot.v4"
)

// Register wires the bot's commands and callbacks into the registry.
func (s *Service) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     s.onStart,
		Description: "Open the admin menu",
		AdminOnly:   true,
		Aliases:     []string{"help", "menu"},
	})
	reg.RegisterCommand("/whoami", commands.Command{
		Handler:     s.onWhoami,
		Description: "Show your chat ID",
	})

	// Dialog control words /skip, /done and /cancel are deliberately not
	// registered: unregistered slash commands fall through to the text
	// route and reach the active dialog.

	for _, key := range []string{
		engine.CbEdit, engine.CbDelete, engine.CbConfirmDelete, engine.CbCancelDelete,
	} {
		_ = reg.RegisterCallback(key, s.onCallback)
	}

	reg.SetTextFallback(s.onUnknownText)
	reg.SetCallbackNotFound(func(c tele.Context) error {
		return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
	})
}

// AdminOptions exposes the access gate for shared command wrapping.
func (s *Service) AdminOptions() middleware.AdminOptions {
	return s.access
}

// Deny sends the fixed access denial reply.
func (s *Service) Deny(c tele.Context) error {
	return s.deny(c)
}

// Buttons maps main menu labels to their handlers for the message router.
// Every handler re-checks admin access itself.
func (s *Service) Buttons() map[string]tele.HandlerFunc {
	gate := func(h tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if !s.isAdmin(c) {
				return s.deny(c)
			}
			return h(c)
		}
	}
	return map[string]tele.HandlerFunc{
		BtnAdd:        gate(s.onAdd),
		BtnEdit:       gate(s.onListEdit),
		BtnDelete:     gate(s.onListDelete),
		BtnAccessCode: gate(s.configSetter(domain.ConfigKeyAccessCode)),
		BtnWelcome:    gate(s.configSetter(domain.ConfigKeyWelcome)),
		BtnInfo:       gate(s.configSetter(domain.ConfigKeyInfo)),
		BtnLoyalty:    gate(s.onLoyalty),
		BtnPromo:      gate(s.onPromo),
	}
}

// onStart shows the menu. An active dialog is left untouched so a stray
// /start does not wipe a half-filled draft.
func (s *Service) onStart(c tele.Context) error {
	return tghelpers.SendText(c, textWelcome, &tele.SendOptions{ReplyMarkup: mainKeyboard()})
}

func (s *Service) onWhoami(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	return tghelpers.SendText(c, fmt.Sprintf("Your chat ID: %d", chat.ID))
}

func (s *Service) onUnknownText(c tele.Context) error {
	if !s.isAdmin(c) {
		return s.deny(c)
	}
	return s.onStart(c)
}

func (s *Service) onAdd(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	return s.apply(ctx, c, s.eng.StartCreate())
}

func (s *Service) onListEdit(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	_, catalog, _ := s.loadAll(ctx, c.Chat().ID)
	return s.apply(ctx, c, s.eng.ListEdit(catalog))
}

func (s *Service) onListDelete(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	_, catalog, _ := s.loadAll(ctx, c.Chat().ID)
	return s.apply(ctx, c, s.eng.ListDelete(catalog))
}

func (s *Service) configSetter(key string) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		_, _, cfg := s.loadAll(ctx, c.Chat().ID)
		return s.apply(ctx, c, s.eng.StartConfigSet(key, cfg))
	}
}

func (s *Service) onLoyalty(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	_, _, cfg := s.loadAll(ctx, c.Chat().ID)
	return s.apply(ctx, c, s.eng.StartLoyalty(cfg))
}

func (s *Service) onPromo(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	_, _, cfg := s.loadAll(ctx, c.Chat().ID)
	return s.apply(ctx, c, s.eng.StartPromo(cfg))
}

// onCallback serves every inline button press. The catalog is re-fetched on
// each press so stale buttons resolve against current data.
func (s *Service) onCallback(c tele.Context) error {
	if !s.isAdmin(c) {
		return s.deny(c)
	}

	key, payload := middleware.ParseCallback(c.Callback())
	ctx := tghelpers.BuildContext(c)
	_, catalog, _ := s.loadAll(ctx, c.Chat().ID)
	return s.apply(ctx, c, s.eng.Callback(key, payload, catalog))
}
