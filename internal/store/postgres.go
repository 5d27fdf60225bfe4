package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	coreconfig "menubot/core/config"
	"menubot/core/logger"

	"log/slog"
)

// Postgres stores kv rows directly in a Postgres kv table, bypassing the
// Supabase REST layer for self-hosted deployments.
type Postgres struct {
	db *sqlx.DB
}

// Connect opens the database connection, configures the pool, and verifies connectivity.
func Connect(cfg coreconfig.StoreConfig) (*Postgres, error) {
	dsn := fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	took := time.Since(start)
	if err != nil {
		logger.DB.Error("db connect failed",
			slog.String("event", "db.connect"),
			slog.String("driver", "postgres"),
			slog.String("host", cfg.Host),
			slog.String("port", cfg.Port),
			slog.String("db", cfg.Name),
			slog.Duration("duration", logger.RoundMS(took)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)

	logger.DB.Info("db connected",
		slog.String("event", "db.connect"),
		slog.String("driver", "postgres"),
		slog.String("host", cfg.Host),
		slog.String("port", cfg.Port),
		slog.String("db", cfg.Name),
		slog.Int("pool_open", cfg.MaxConnections),
		slog.Duration("duration", logger.RoundMS(took)),
	)

	return &Postgres{db: db}, nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

// Get fetches the raw JSON value stored under key.
func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	var value []byte
	err := p.db.GetContext(ctx, &value, `SELECT value FROM kv WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound
	}
	p.logOp(ctx, "kv.get", key, start, err)
	if err != nil {
		if err == ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("kv get %s: %w", key, err)
	}
	return value, nil
}

// Set upserts the value under key.
func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value,
	)
	p.logOp(ctx, "kv.set", key, start, err)
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

// Delete removes the row under key. Deleting a missing key is not an error.
func (p *Postgres) Delete(ctx context.Context, key string) error {
	start := time.Now()
	_, err := p.db.ExecContext(ctx, `DELETE FROM kv WHERE key = $1`, key)
	p.logOp(ctx, "kv.delete", key, start, err)
	if err != nil {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) logOp(ctx context.Context, event, key string, start time.Time, err error) {
	attrs := []slog.Attr{
		slog.String("key", key),
		slog.String("status", logger.Status(err)),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	}
	if err != nil && err != ErrNotFound {
		attrs = append(attrs, slog.String("err", err.Error()))
		logger.Warn(ctx, "store", event, attrs...)
		return
	}
	if logger.ShouldSampleDebug() {
		logger.Debug(ctx, "store", event, attrs...)
	}
}

// WaitForPostgres tries to connect to the DB until it is ready or timeout is reached.
func WaitForPostgres(dsn string, timeout time.Duration) error {
	start := time.Now()
	var lastErr error
	for {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			if err = db.Ping(); err == nil {
				_ = db.Close()
				return nil
			}
			_ = db.Close()
		}
		lastErr = err
		if time.Since(start) > timeout {
			return fmt.Errorf("timeout reached waiting for database: %w", lastErr)
		}
		time.Sleep(2 * time.Second)
	}
}
