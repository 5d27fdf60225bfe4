package bot

import (
	"context"
	"errors"
	"time"

	"menubot/core/logger"

	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Notifier forwards site order messages to the admin chats.
type Notifier struct {
	bot     *tele.Bot
	chatIDs []int64
}

// NewNotifier builds a notifier targeting the given admin chats.
func NewNotifier(b *tele.Bot, chatIDs []int64) *Notifier {
	return &Notifier{bot: b, chatIDs: chatIDs}
}

// SendOrder delivers the order text to every admin chat. Delivery to at
// least one chat counts as success.
func (n *Notifier) SendOrder(ctx context.Context, text string) error {
	if len(n.chatIDs) == 0 {
		return errors.New("notifier: no admin chats configured")
	}

	start := time.Now()
	var delivered int
	var lastErr error
	for _, id := range n.chatIDs {
		if _, err := n.bot.Send(tele.ChatID(id), text); err != nil {
			lastErr = err
			logger.Warn(ctx, "tg", "order.send_failed",
				slog.Int64("chat_id", id),
				slog.String("err", err.Error()),
			)
			continue
		}
		delivered++
	}

	logger.Info(ctx, "tg", "order.forwarded",
		slog.Int("delivered", delivered),
		slog.Int("targets", len(n.chatIDs)),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)

	if delivered == 0 {
		return lastErr
	}
	return nil
}
