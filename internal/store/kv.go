// Package store provides the key-value persistence layer shared by the bot
// and the HTTP API. All application data lives in a single kv table keyed by
// string, with JSON values.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Well-known keys.
const (
	KeyMenu       = "menu"
	KeySiteConfig = "site_config"
)

// StateKey returns the per-chat dialog state key.
func StateKey(chatID int64) string {
	return fmt.Sprintf("state:%d", chatID)
}

// LoyaltyKey returns the per-user loyalty counter key. The user handle is
// stored lowercased without the leading @.
func LoyaltyKey(user string) string {
	return "loyalty:" + user
}

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("store: key not found")

// KV abstracts the key-value backend. Values are raw JSON documents.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
