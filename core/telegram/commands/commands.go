package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command binds a bot command to its handler and routing metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	// AdminOnly commands are gated behind the configured admin chat list.
	AdminOnly bool
	// Hidden commands never appear in the Telegram command menu.
	Hidden bool
	// Aliases are alternative spellings resolved by the registry lookup,
	// with or without the leading slash.
	Aliases []string
}

// Listed reports whether the command belongs in the public command menu.
func (c Command) Listed() bool {
	return !c.Hidden && !c.AdminOnly
}
