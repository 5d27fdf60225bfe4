package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token string `yaml:"token" envconfig:"BOT_TOKEN"`
	// AdminIDs is a comma-separated list of chat identifiers allowed to
	// administer the catalog. When empty, AdminChatID is the sole admin.
	AdminIDs    string `yaml:"admin_ids" envconfig:"ADMIN_IDS"`
	AdminChatID int64  `yaml:"admin_chat_id" envconfig:"ADMIN_CHAT_ID"`
	RunMode     string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// StoreConfig selects and configures the key-value backend.
type StoreConfig struct {
	// Backend is either "supabase" (REST) or "postgres" (direct DSN).
	Backend string `yaml:"backend" envconfig:"STORE_BACKEND"`

	SupabaseURL        string `yaml:"supabase_url" envconfig:"SUPABASE_URL"`
	SupabaseServiceKey string `yaml:"supabase_service_key" envconfig:"SUPABASE_SERVICE_ROLE"`

	Host           string `yaml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
}

// RehostConfig configures the public file host used for media uploads.
type RehostConfig struct {
	Endpoint string `yaml:"endpoint" envconfig:"REHOST_ENDPOINT"`
	// UserHash is the optional catbox account hash; anonymous uploads when empty.
	UserHash string `yaml:"user_hash" envconfig:"REHOST_USER_HASH"`
}

// APIConfig configures the site-facing HTTP API.
type APIConfig struct {
	Listen string `yaml:"listen" envconfig:"API_LISTEN"`
	// LoyaltyThreshold is the fallback order count when site config has none.
	LoyaltyThreshold int `yaml:"loyalty_threshold" envconfig:"LOYALTY_THRESHOLD"`
}

// LoggingConfig defines logging related configuration.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	KeysOrder   string `yaml:"keys_order"`
	DebugSample string `yaml:"debug_sample"`
	Dir         string `yaml:"dir"`
	BotFile     string `yaml:"bot_file"`
	// Profile indicates environment profile such as "debug" or "prod".
	Profile string `yaml:"profile"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

const (
	// StoreBackendSupabase addresses the kv table through the Supabase REST API.
	StoreBackendSupabase = "supabase"
	// StoreBackendPostgres addresses the kv table directly over a DSN.
	StoreBackendPostgres = "postgres"
)

const (
	// UpdateCallback identifies callback updates for rate limit exclusions.
	UpdateCallback = "callback"
	// UpdateMessage identifies message updates for rate limit exclusions.
	UpdateMessage = "message"
)

// RateLimitConfig holds settings for rate limiting.
type RateLimitConfig struct {
	IntervalMS     int      `yaml:"interval_ms" envconfig:"RATE_LIMIT_INTERVAL_MS"`
	ExcludeUpdates []string `yaml:"exclude_updates" envconfig:"RATE_LIMIT_EXCLUDE_UPDATES"`
}

// Config aggregates the application configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Store     StoreConfig     `yaml:"store"`
	Rehost    RehostConfig    `yaml:"rehost"`
	API       APIConfig       `yaml:"api"`
	Logging   LoggingConfig   `yaml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required configuration fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}
	if len(cfg.AdminChatIDs()) == 0 {
		return fmt.Errorf("telegram.admin_ids or telegram.admin_chat_id is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	backend := strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	if backend == "" {
		backend = StoreBackendSupabase
	}
	switch backend {
	case StoreBackendSupabase:
		if strings.TrimSpace(cfg.Store.SupabaseURL) == "" {
			return fmt.Errorf("store.supabase_url is required when store.backend is 'supabase'")
		}
		if strings.TrimSpace(cfg.Store.SupabaseServiceKey) == "" {
			return fmt.Errorf("store.supabase_service_key is required when store.backend is 'supabase'")
		}
	case StoreBackendPostgres:
		if strings.TrimSpace(cfg.Store.Host) == "" || strings.TrimSpace(cfg.Store.Name) == "" {
			return fmt.Errorf("store.host and store.name are required when store.backend is 'postgres'")
		}
		if cfg.Store.MaxConnections <= 0 {
			cfg.Store.MaxConnections = 5
		}
	default:
		return fmt.Errorf("invalid store.backend %q; allowed: supabase, postgres", cfg.Store.Backend)
	}
	cfg.Store.Backend = backend

	if strings.TrimSpace(cfg.Rehost.Endpoint) == "" {
		cfg.Rehost.Endpoint = "https://catbox.moe/user/api.php"
	}
	if strings.TrimSpace(cfg.API.Listen) == "" {
		cfg.API.Listen = ":8080"
	}
	if cfg.API.LoyaltyThreshold <= 0 {
		cfg.API.LoyaltyThreshold = 5
	}

	allowed := map[string]struct{}{
		UpdateCallback: {},
		UpdateMessage:  {},
	}
	for i, v := range cfg.RateLimit.ExcludeUpdates {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" {
			continue
		}
		if _, ok := allowed[key]; !ok {
			return fmt.Errorf("invalid rate_limit.exclude_updates value %q; allowed: callback, message", v)
		}
		cfg.RateLimit.ExcludeUpdates[i] = key
	}
	return nil
}

// AdminChatIDs returns the resolved set of admin chat identifiers:
// the comma-separated list when present, otherwise the single fallback ID.
func (c *Config) AdminChatIDs() []int64 {
	var ids []int64
	for _, part := range strings.Split(c.Telegram.AdminIDs, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 && c.Telegram.AdminChatID != 0 {
		ids = append(ids, c.Telegram.AdminChatID)
	}
	return ids
}
