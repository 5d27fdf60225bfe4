package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"menubot/core/logger"

	jsoniter "github.com/json-iterator/go"
	"log/slog"
)

var sbJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Supabase stores kv rows through the Supabase REST interface.
// The backing table is kv(key text primary key, value jsonb).
type Supabase struct {
	base   string
	apiKey string
	client *http.Client
}

// NewSupabase builds a client for the given project URL and service key.
// A nil httpClient falls back to a client with a sane timeout.
func NewSupabase(projectURL, serviceKey string, httpClient *http.Client) *Supabase {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Supabase{
		base:   strings.TrimRight(projectURL, "/") + "/rest/v1/kv",
		apiKey: serviceKey,
		client: httpClient,
	}
}

func (s *Supabase) auth(req *http.Request) {
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
}

type kvRow struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// Get fetches the raw JSON value stored under key.
func (s *Supabase) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	endpoint := s.base + "?key=eq." + url.QueryEscape(key) + "&select=value"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("supabase get %s: %w", key, err)
	}
	s.auth(req)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logOp(ctx, "kv.get", key, start, err)
		return nil, fmt.Errorf("supabase get %s: %w", key, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("supabase get %s: read body: %w", key, err)
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("supabase get %s: status %s", key, resp.Status)
		s.logOp(ctx, "kv.get", key, start, err)
		return nil, err
	}

	var rows []kvRow
	if err := sbJSON.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("supabase get %s: decode: %w", key, err)
	}
	if len(rows) == 0 || len(rows[0].Value) == 0 {
		s.logOp(ctx, "kv.get", key, start, ErrNotFound)
		return nil, ErrNotFound
	}
	s.logOp(ctx, "kv.get", key, start, nil)
	return rows[0].Value, nil
}

// Set upserts the value under key. Insert is attempted first; an existing
// row answers 409 and is updated in place.
func (s *Supabase) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()

	payload, err := sbJSON.Marshal(kvRow{Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("supabase set %s: encode: %w", key, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("supabase set %s: %w", key, err)
	}
	s.auth(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logOp(ctx, "kv.set", key, start, err)
		return fmt.Errorf("supabase set %s: %w", key, err)
	}
	drain(resp)

	switch {
	case resp.StatusCode == http.StatusConflict:
		err = s.patch(ctx, key, value)
	case resp.StatusCode >= 300:
		err = fmt.Errorf("supabase set %s: status %s", key, resp.Status)
	}
	s.logOp(ctx, "kv.set", key, start, err)
	return err
}

func (s *Supabase) patch(ctx context.Context, key string, value []byte) error {
	payload, err := sbJSON.Marshal(struct {
		Value json.RawMessage `json:"value"`
	}{Value: value})
	if err != nil {
		return fmt.Errorf("supabase patch %s: encode: %w", key, err)
	}

	endpoint := s.base + "?key=eq." + url.QueryEscape(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("supabase patch %s: %w", key, err)
	}
	s.auth(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("supabase patch %s: %w", key, err)
	}
	drain(resp)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("supabase patch %s: status %s", key, resp.Status)
	}
	return nil
}

// Delete removes the row under key. Deleting a missing key is not an error.
func (s *Supabase) Delete(ctx context.Context, key string) error {
	start := time.Now()
	endpoint := s.base + "?key=eq." + url.QueryEscape(key)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("supabase delete %s: %w", key, err)
	}
	s.auth(req)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logOp(ctx, "kv.delete", key, start, err)
		return fmt.Errorf("supabase delete %s: %w", key, err)
	}
	drain(resp)
	if resp.StatusCode >= 300 {
		err = fmt.Errorf("supabase delete %s: status %s", key, resp.Status)
	} else {
		err = nil
	}
	s.logOp(ctx, "kv.delete", key, start, err)
	return err
}

func (s *Supabase) logOp(ctx context.Context, event, key string, start time.Time, err error) {
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

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
