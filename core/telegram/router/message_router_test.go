package router

import (
	"testing"

	tg "menubot/core/telegram"
	"menubot/core/telegram/commands"
	"menubot/core/telegram/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"
)

// stubContext implements just enough of tele.Context for the text route.
type stubContext struct {
	tele.Context
	text string
	chat *tele.Chat
	kv   map[string]any
}

func newStubContext(text string, chatID int64) *stubContext {
	return &stubContext{
		text: text,
		chat: &tele.Chat{ID: chatID},
		kv:   make(map[string]any),
	}
}

func (s *stubContext) Text() string        { return s.text }
func (s *stubContext) Chat() *tele.Chat    { return s.chat }
func (s *stubContext) Sender() *tele.User  { return nil }
func (s *stubContext) Update() tele.Update { return tele.Update{ID: 1} }
func (s *stubContext) Set(k string, v any) { s.kv[k] = v }
func (s *stubContext) Get(k string) any    { return s.kv[k] }

const adminChat = int64(42)

func textHandlerFor(t *testing.T, reg *tg.Registry, opts MessageOptions) tele.HandlerFunc {
	t.Helper()
	routes := MessageRoutes(nil, reg, opts)
	require.NotEmpty(t, routes)
	require.Equal(t, tele.OnText, routes[0].Endpoint)
	return routes[0].Handler
}

func TestCommandLookupKeepsAdminGate(t *testing.T) {
	var served, denied bool
	reg := tg.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{
		Handler:     func(tele.Context) error { served = true; return nil },
		Description: "Open the admin menu",
		AdminOnly:   true,
		Aliases:     []string{"help", "menu"},
	})

	admin := middleware.NewAdminOptions([]int64{adminChat}, func(tele.Context) error {
		denied = true
		return nil
	})
	handler := textHandlerFor(t, reg, MessageOptions{Admin: admin})

	// Aliases and bare command words resolve through LookupCommand; none
	// of the spellings may reach the handler from a public chat.
	for _, input := range []string{"/start", "start", "/help", "help", "/menu", "menu"} {
		served, denied = false, false
		require.NoError(t, handler(newStubContext(input, 7)))
		assert.False(t, served, "input %q served a public chat", input)
		assert.True(t, denied, "input %q skipped the denial", input)
	}

	served, denied = false, false
	require.NoError(t, handler(newStubContext("help", adminChat)))
	assert.True(t, served)
	assert.False(t, denied)
}

func TestCommandLookupPublicCommandStaysOpen(t *testing.T) {
	var served bool
	reg := tg.NewRegistry()
	reg.RegisterCommand("/whoami", commands.Command{
		Handler:     func(tele.Context) error { served = true; return nil },
		Description: "Show your chat ID",
	})

	admin := middleware.NewAdminOptions([]int64{adminChat}, func(tele.Context) error {
		t.Fatal("public command must not be gated")
		return nil
	})
	handler := textHandlerFor(t, reg, MessageOptions{Admin: admin})

	require.NoError(t, handler(newStubContext("/whoami", 7)))
	assert.True(t, served)
}

func TestButtonsBeforeDialogBeforeCommands(t *testing.T) {
	var pressed bool
	reg := tg.NewRegistry()
	reg.RegisterCommand("/start", commands.Command{
		Handler:     func(tele.Context) error { t.Fatal("button label must not resolve as command"); return nil },
		Description: "Open the admin menu",
	})

	handler := textHandlerFor(t, reg, MessageOptions{
		Buttons: map[string]tele.HandlerFunc{
			"Add": func(tele.Context) error { pressed = true; return nil },
		},
	})

	require.NoError(t, handler(newStubContext("Add", adminChat)))
	assert.True(t, pressed)
}

func TestUnknownTextFallsThrough(t *testing.T) {
	var unknown bool
	handler := textHandlerFor(t, tg.NewRegistry(), MessageOptions{
		UnknownText: func(tele.Context) error { unknown = true; return nil },
	})

	require.NoError(t, handler(newStubContext("gibberish", adminChat)))
	assert.True(t, unknown)
}
