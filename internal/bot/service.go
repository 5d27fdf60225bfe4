// Package bot wires the dialog engine to the Telegram transport: it loads
// the chat's state and data before each turn, hands the normalized update to
// the engine, persists whatever the engine decided, and sends the replies.
package bot

import (
	"context"

	"menubot/core/logger"
	"menubot/core/telegram/callbacks"
	tghelpers "menubot/core/telegram/helpers"
	"menubot/core/telegram/keyboard"
	"menubot/core/telegram/middleware"
	"menubot/internal/domain"
	"menubot/internal/engine"
	"menubot/internal/store"

	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Service is the admin console bot.
type Service struct {
	eng     *engine.Engine
	catalog *store.Catalog
	config  *store.Config
	state   *store.State
	access  middleware.AdminOptions
}

// NewService assembles the bot over its repositories and engine.
func NewService(eng *engine.Engine, kv store.KV, adminIDs []int64) *Service {
	s := &Service{
		eng:     eng,
		catalog: store.NewCatalog(kv),
		config:  store.NewConfig(kv),
		state:   store.NewState(kv),
	}
	s.access = middleware.NewAdminOptions(adminIDs, s.deny)
	return s
}

func (s *Service) deny(c tele.Context) error {
	return tghelpers.SendText(c, textDenied)
}

func (s *Service) isAdmin(c tele.Context) bool {
	chat := c.Chat()
	return chat != nil && s.access.IsAdmin(chat.ID)
}

// Active reports whether the chat has a dialog in progress. Lookup failures
// count as idle so a broken store never traps a chat in a dead dialog.
func (s *Service) Active(chatID int64) bool {
	st, err := s.state.Load(context.Background(), chatID)
	if err != nil {
		return false
	}
	return st.Active()
}

// HandleText routes a text message from a chat with an active dialog.
func (s *Service) HandleText(c tele.Context) error {
	if !s.isAdmin(c) {
		return s.deny(c)
	}

	ctx := tghelpers.BuildContext(c)
	st, catalog, cfg := s.loadAll(ctx, c.Chat().ID)
	fx := s.eng.Text(ctx, turnFrom(c), st, catalog, cfg)
	return s.apply(ctx, c, fx)
}

// HandleMedia routes a photo/video/document message.
func (s *Service) HandleMedia(c tele.Context) error {
	if !s.isAdmin(c) {
		return s.deny(c)
	}

	ctx := tghelpers.BuildContext(c)
	st, catalog, _ := s.loadAll(ctx, c.Chat().ID)
	fx := s.eng.Media(ctx, turnFrom(c), st, catalog)
	return s.apply(ctx, c, fx)
}

// loadAll fetches the chat's dialog state, the catalog, and the site config.
// Load errors degrade to zero values; the turn proceeds on defaults.
func (s *Service) loadAll(ctx context.Context, chatID int64) (domain.DialogState, []domain.Product, domain.SiteConfig) {
	st, err := s.state.Load(ctx, chatID)
	if err != nil {
		logger.Warn(ctx, "bot", "state.load_failed", slog.String("err", err.Error()))
		st = domain.DialogState{}
	}
	catalog, err := s.catalog.Load(ctx)
	if err != nil {
		logger.Warn(ctx, "bot", "menu.load_failed", slog.String("err", err.Error()))
		catalog = nil
	}
	cfg, err := s.config.Load(ctx)
	if err != nil {
		logger.Warn(ctx, "bot", "site_config.load_failed", slog.String("err", err.Error()))
		cfg = domain.DefaultSiteConfig()
	}
	return st, catalog, cfg
}

// turnFrom normalizes the transport update into an engine turn.
func turnFrom(c tele.Context) engine.Turn {
	t := engine.Turn{Text: c.Text()}
	if chat := c.Chat(); chat != nil {
		t.ChatID = chat.ID
	}

	msg := c.Message()
	if msg == nil {
		return t
	}
	if msg.Photo != nil {
		t.PhotoID = msg.Photo.FileID
	}
	if msg.Video != nil {
		t.VideoID = msg.Video.FileID
	}
	if msg.Document != nil {
		t.DocID = msg.Document.FileID
		t.DocMime = msg.Document.MIME
		t.DocName = msg.Document.FileName
	}
	if t.Text == "" && msg.Caption != "" {
		t.Text = msg.Caption
	}
	return t
}

// apply persists the effects of a turn, then sends the replies. Mutations
// are written before anything is sent so a send failure cannot desync the
// stored state; failed sends are logged and the turn still succeeds.
func (s *Service) apply(ctx context.Context, c tele.Context, fx engine.Effects) error {
	chatID := c.Chat().ID

	if fx.SaveCatalog {
		if err := s.catalog.Save(ctx, fx.Catalog); err != nil {
			logger.Error(ctx, "bot", "menu.save_failed", slog.String("err", err.Error()))
			return tghelpers.SendText(c, textStorage)
		}
	}
	if fx.Config != nil {
		if err := s.config.Save(ctx, *fx.Config); err != nil {
			logger.Error(ctx, "bot", "site_config.save_failed", slog.String("err", err.Error()))
			return tghelpers.SendText(c, textStorage)
		}
	}
	if fx.State != nil {
		var err error
		if fx.State.Active() {
			err = s.state.Save(ctx, chatID, *fx.State)
		} else {
			err = s.state.Clear(ctx, chatID)
		}
		if err != nil {
			logger.Error(ctx, "bot", "state.save_failed", slog.String("err", err.Error()))
			return tghelpers.SendText(c, textStorage)
		}
	}

	for _, r := range fx.Replies {
		if err := s.send(c, r); err != nil {
			logger.Warn(ctx, "bot", "reply.send_failed", slog.String("err", err.Error()))
		}
	}
	return nil
}

func (s *Service) send(c tele.Context, r engine.Reply) error {
	var markup *tele.ReplyMarkup
	switch {
	case len(r.Buttons) > 0:
		rows := make([][]keyboard.InlineBtn, 0, len(r.Buttons))
		for _, b := range r.Buttons {
			rows = append(rows, []keyboard.InlineBtn{{
				Text: b.Text,
				Data: callbacks.Join(b.Key, b.Payload),
			}})
		}
		markup = keyboard.InlineRows(rows)
	case r.MainMenu:
		markup = mainKeyboard()
	}

	if markup != nil {
		return tghelpers.SendText(c, r.Text, &tele.SendOptions{ReplyMarkup: markup})
	}
	return tghelpers.SendText(c, r.Text)
}
