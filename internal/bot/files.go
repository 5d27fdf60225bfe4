package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sync"

	tele "gopkg.in/telebot.v4"
)

// maxDownload caps Telegram file downloads; Bot API files top out at 20 MB.
const maxDownload = 20 << 20

// TeleFiles downloads Telegram files through the bot transport. The bot is
// attached after transport startup, before any update is processed.
type TeleFiles struct {
	mu  sync.RWMutex
	bot *tele.Bot
}

// NewTeleFiles returns a file source without a transport attached yet.
func NewTeleFiles() *TeleFiles {
	return &TeleFiles{}
}

// SetBot attaches the transport.
func (t *TeleFiles) SetBot(b *tele.Bot) {
	t.mu.Lock()
	t.bot = b
	t.mu.Unlock()
}

func (t *TeleFiles) getBot() *tele.Bot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.bot
}

// Download fetches a file's bytes by file ID. The returned name is the
// base of the Telegram file path when known.
func (t *TeleFiles) Download(_ context.Context, fileID string) (string, []byte, error) {
	b := t.getBot()
	if b == nil {
		return "", nil, errors.New("telegram file source not ready")
	}

	file := tele.File{FileID: fileID}
	rc, err := b.File(&file)
	if err != nil {
		return "", nil, fmt.Errorf("telegram file %s: %w", fileID, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxDownload))
	if err != nil {
		return "", nil, fmt.Errorf("telegram file %s: read: %w", fileID, err)
	}

	name := ""
	if file.FilePath != "" {
		name = path.Base(file.FilePath)
	}
	return name, data, nil
}
