package middleware

import tele "gopkg.in/telebot.v4"

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	// AdminIDs is the full set of chat identifiers allowed through.
	AdminIDs map[int64]struct{}
	// OnReject runs instead of the handler when access is denied.
	OnReject tele.HandlerFunc
}

// IsAdmin reports whether the chat identity belongs to the configured admin set.
func (o AdminOptions) IsAdmin(chatID int64) bool {
	_, ok := o.AdminIDs[chatID]
	return ok
}

// NewAdminOptions builds AdminOptions from a list of admin chat IDs.
func NewAdminOptions(ids []int64, onReject tele.HandlerFunc) AdminOptions {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return AdminOptions{AdminIDs: set, OnReject: onReject}
}

// AdminOnlyMiddleware ensures that only configured admin chats reach downstream handlers.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chat := c.Chat()
			if chat == nil || !opts.IsAdmin(chat.ID) {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}

// WithAdminCheck wraps a single handler enforcing admin-only execution when required.
func WithAdminCheck(opts AdminOptions, adminOnly bool, h tele.HandlerFunc) tele.HandlerFunc {
	if !adminOnly || len(opts.AdminIDs) == 0 {
		return h
	}
	return AdminOnlyMiddleware(opts)(h)
}
