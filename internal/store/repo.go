package store

import (
	"context"
	"errors"
	"strings"

	"menubot/internal/domain"

	jsoniter "github.com/json-iterator/go"
	"log/slog"

	"menubot/core/logger"
)

var repoJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Catalog reads and writes the product list stored under the menu key.
type Catalog struct {
	kv KV
}

// NewCatalog wraps a KV backend with catalog typed access.
func NewCatalog(kv KV) *Catalog {
	return &Catalog{kv: kv}
}

// Load returns the current catalog. A missing or undecodable value yields an
// empty catalog. Entries without identifiers get one assigned and the
// repaired list is written back.
func (r *Catalog) Load(ctx context.Context) ([]domain.Product, error) {
	raw, err := r.kv.Get(ctx, KeyMenu)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var products []domain.Product
	if err := repoJSON.Unmarshal(raw, &products); err != nil {
		logger.Warn(ctx, "store", "menu.decode_failed", slog.String("err", err.Error()))
		return nil, nil
	}

	repaired := false
	for i := range products {
		if products[i].EnsureID() {
			repaired = true
		}
	}
	if repaired {
		if err := r.Save(ctx, products); err != nil {
			logger.Warn(ctx, "store", "menu.repair_failed", slog.String("err", err.Error()))
		}
	}
	return products, nil
}

// Save writes the full catalog back.
func (r *Catalog) Save(ctx context.Context, products []domain.Product) error {
	if products == nil {
		products = []domain.Product{}
	}
	raw, err := repoJSON.Marshal(products)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, KeyMenu, raw)
}

// FindByID returns the product with the given identifier and its index.
func FindByID(products []domain.Product, id string) (int, bool) {
	for i := range products {
		if products[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Config reads and writes the site configuration.
type Config struct {
	kv KV
}

// NewConfig wraps a KV backend with site-config typed access.
func NewConfig(kv KV) *Config {
	return &Config{kv: kv}
}

// Load returns the stored site configuration, falling back to defaults when
// the key is missing or the value does not decode.
func (r *Config) Load(ctx context.Context) (domain.SiteConfig, error) {
	cfg := domain.DefaultSiteConfig()

	raw, err := r.kv.Get(ctx, KeySiteConfig)
	if errors.Is(err, ErrNotFound) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := repoJSON.Unmarshal(raw, &cfg); err != nil {
		logger.Warn(ctx, "store", "site_config.decode_failed", slog.String("err", err.Error()))
		return domain.DefaultSiteConfig(), nil
	}
	if cfg.AccessCode == "" {
		cfg.AccessCode = domain.DefaultAccessCode
	}
	return cfg, nil
}

// Save writes the site configuration back.
func (r *Config) Save(ctx context.Context, cfg domain.SiteConfig) error {
	raw, err := repoJSON.Marshal(cfg)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, KeySiteConfig, raw)
}

// State reads and writes per-chat dialog state.
type State struct {
	kv KV
}

// NewState wraps a KV backend with dialog-state typed access.
func NewState(kv KV) *State {
	return &State{kv: kv}
}

// Load returns the dialog state for a chat, idle when missing or undecodable.
func (r *State) Load(ctx context.Context, chatID int64) (domain.DialogState, error) {
	var st domain.DialogState

	raw, err := r.kv.Get(ctx, StateKey(chatID))
	if errors.Is(err, ErrNotFound) {
		return st, nil
	}
	if err != nil {
		return st, err
	}
	if err := repoJSON.Unmarshal(raw, &st); err != nil {
		logger.Warn(ctx, "store", "state.decode_failed",
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
		return domain.DialogState{}, nil
	}
	return st, nil
}

// Save writes the dialog state for a chat.
func (r *State) Save(ctx context.Context, chatID int64, st domain.DialogState) error {
	raw, err := repoJSON.Marshal(st)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, StateKey(chatID), raw)
}

// Clear drops the dialog state for a chat.
func (r *State) Clear(ctx context.Context, chatID int64) error {
	return r.kv.Delete(ctx, StateKey(chatID))
}

// Loyalty reads and writes per-user order counters.
type Loyalty struct {
	kv KV
}

// NewLoyalty wraps a KV backend with loyalty counter access.
func NewLoyalty(kv KV) *Loyalty {
	return &Loyalty{kv: kv}
}

// NormalizeHandle lowercases a user handle and strips the leading @.
func NormalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
}

// Count returns the order counter for a user, zero when absent.
func (r *Loyalty) Count(ctx context.Context, user string) (int, error) {
	raw, err := r.kv.Get(ctx, LoyaltyKey(NormalizeHandle(user)))
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var n int
	if err := repoJSON.Unmarshal(raw, &n); err != nil {
		logger.Warn(ctx, "store", "loyalty.decode_failed",
			slog.String("key", LoyaltyKey(NormalizeHandle(user))),
			slog.String("err", err.Error()),
		)
		return 0, nil
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}

// SetCount writes the order counter for a user, clamping at zero.
func (r *Loyalty) SetCount(ctx context.Context, user string, count int) error {
	if count < 0 {
		count = 0
	}
	raw, err := repoJSON.Marshal(count)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, LoyaltyKey(NormalizeHandle(user)), raw)
}
