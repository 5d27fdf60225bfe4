// Package engine implements the conversational state machine of the admin
// console. Every operation is a function of the incoming turn plus the
// chat's loaded state, catalog, and config, and returns the effects to
// apply: replies to send, state to persist, catalog/config mutations.
// The transport layer owns loading, persisting, and sending.
package engine

import (
	"context"
	"fmt"

	"menubot/internal/domain"
)

// Callback keys carried on inline keyboards.
const (
	CbEdit          = "edit"
	CbDelete        = "del"
	CbConfirmDelete = "confirmdel"
	CbCancelDelete  = "canceldel"
)

// Rehoster uploads media to the public file host.
type Rehoster interface {
	RehostBlob(ctx context.Context, filename string, data []byte) (string, error)
	RehostURL(ctx context.Context, remote string) (string, error)
}

// FileSource downloads a Telegram file by its file ID.
type FileSource interface {
	Download(ctx context.Context, fileID string) (filename string, data []byte, err error)
}

// Turn is one inbound message, normalized away from the transport types.
type Turn struct {
	ChatID int64
	Text   string

	PhotoID string
	VideoID string
	DocID   string
	DocMime string
	DocName string
}

// Button is an inline keyboard button; each button renders as its own row.
type Button struct {
	Text    string
	Key     string
	Payload string
}

// Reply is one outbound message.
type Reply struct {
	Text string
	// MainMenu attaches the persistent admin keyboard.
	MainMenu bool
	Buttons  []Button
}

// Effects is everything a turn decided. Zero-value fields mean "no change".
type Effects struct {
	Replies []Reply

	// State, when set, replaces the persisted dialog state. An idle state
	// clears the stored key.
	State *domain.DialogState

	// Catalog, together with SaveCatalog, replaces the persisted catalog.
	Catalog     []domain.Product
	SaveCatalog bool

	// Config, when set, replaces the persisted site configuration.
	Config *domain.SiteConfig
}

func (e *Effects) reply(text string) {
	e.Replies = append(e.Replies, Reply{Text: text})
}

func (e *Effects) setState(st domain.DialogState) {
	e.State = &st
}

// Engine drives dialog transitions. Rehosting and file download are the only
// external calls it performs itself.
type Engine struct {
	rehost Rehoster
	files  FileSource
}

// New builds an engine with its media collaborators.
func New(rehost Rehoster, files FileSource) *Engine {
	return &Engine{rehost: rehost, files: files}
}

// reused reply texts
const (
	textCancelled  = "Cancelled. Nothing was changed."
	textNotFound   = "That product no longer exists. Nothing was changed."
	textNeedName   = "The product needs a name before it can be saved. Send the name, or /cancel."
	textEmptyMenu  = "The catalog is empty."
	textNoDialog   = "No dialog in progress. Use the menu buttons to start one."
	textConfigSet  = "Saved."
	textBadAccess  = "Access code must be 2-16 letters, digits or underscores. Try again or /cancel."
	textUnexpected = "Wasn't expecting a file here. Send text, or /cancel."
)

func productLine(i int, p domain.Product) string {
	if p.Cat == "" {
		return fmt.Sprintf("#%d — %s", i+1, p.Name)
	}
	return fmt.Sprintf("#%d — %s (%s)", i+1, p.Name, p.Cat)
}
