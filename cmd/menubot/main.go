package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"menubot/core/config"
	"menubot/core/logger"
	"menubot/core/telegram"
	"menubot/core/telegram/router"
	"menubot/internal/api"
	"menubot/internal/bot"
	"menubot/internal/engine"
	"menubot/internal/rehost"
	"menubot/internal/store"

	"log/slog"
)

const defaultConfigPath = "config.yaml"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "menubot:", err)
		os.Exit(1)
	}
}

func run() error {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.InitLogger(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Shutdown() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeStore()

	// The file source is attached to the bot transport in OnStart; until
	// then the engine has no reason to download anything.
	files := bot.NewTeleFiles()
	uploader := rehost.New(cfg.Rehost.Endpoint, cfg.Rehost.UserHash, nil)
	svc := bot.NewService(engine.New(uploader, files), kv, cfg.AdminChatIDs())
	apiSrv := api.NewServer(kv, cfg.API.LoyaltyThreshold)

	reg := telegram.NewRegistry()
	svc.Register(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminIDs:      cfg.AdminChatIDs(),
		OnAdminReject: svc.Deny,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.MessageRoutes(svc, reg, router.MessageOptions{
		Buttons: svc.Buttons(),
		Admin:   svc.AdminOptions(),
	})...)

	startedAt := time.Now()
	opts := telegram.RunOptions{
		Config:      cfg,
		Registry:    reg,
		Middlewares: telegram.DefaultMiddlewares(cfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt telegram.Runtime) error {
			files.SetBot(rt.Bot)
			apiSrv.SetNotifier(bot.NewNotifier(rt.Bot, cfg.AdminChatIDs()))

			go func() {
				if err := apiSrv.Start(cfg.API.Listen); err != nil {
					logger.Error(logger.Background(), "api", "listen_failed",
						slog.String("listen", cfg.API.Listen),
						slog.String("err", err.Error()),
					)
				}
			}()

			logger.Info(ctx, "app", "ready",
				slog.String("api_listen", cfg.API.Listen),
				slog.String("store", cfg.Store.Backend),
				slog.Int64("startup_ms", logger.RoundMS(time.Since(startedAt)).Milliseconds()),
			)
			return nil
		},
		OnStop: func(ctx context.Context, _ telegram.Runtime) error {
			logger.Info(ctx, "app", "shutting down")
			shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return apiSrv.Shutdown(shCtx)
		},
	}

	return telegram.RunTelegram(ctx, opts)
}

// openStore builds the configured KV backend. Postgres runs migrations
// before connecting; Supabase talks to an already provisioned kv table.
func openStore(cfg *config.Config) (store.KV, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		if err := store.RunMigrations(cfg.Store); err != nil {
			return nil, nil, err
		}
		pg, err := store.Connect(cfg.Store)
		if err != nil {
			return nil, nil, err
		}
		return pg, func() { _ = pg.Close() }, nil
	default:
		sb := store.NewSupabase(cfg.Store.SupabaseURL, cfg.Store.SupabaseServiceKey, telegram.BuildHTTPClient())
		return sb, func() {}, nil
	}
}
