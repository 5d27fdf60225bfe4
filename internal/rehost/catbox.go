// Package rehost uploads Telegram media to a public file host so the site
// can serve it without touching the Bot API.
package rehost

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"menubot/core/logger"

	"log/slog"
)

// Client uploads files to a catbox-compatible host.
type Client struct {
	endpoint string
	userHash string
	http     *http.Client
}

// New builds an upload client. A nil httpClient falls back to a client with
// a timeout generous enough for media uploads.
func New(endpoint, userHash string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{endpoint: endpoint, userHash: userHash, http: httpClient}
}

// RehostBlob uploads raw file bytes and returns the public URL.
func (c *Client) RehostBlob(ctx context.Context, filename string, data []byte) (string, error) {
	start := time.Now()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("reqtype", "fileupload"); err != nil {
		return "", fmt.Errorf("rehost: build form: %w", err)
	}
	if c.userHash != "" {
		if err := mw.WriteField("userhash", c.userHash); err != nil {
			return "", fmt.Errorf("rehost: build form: %w", err)
		}
	}
	fw, err := mw.CreateFormFile("fileToUpload", filename)
	if err != nil {
		return "", fmt.Errorf("rehost: build form: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return "", fmt.Errorf("rehost: build form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("rehost: build form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("rehost: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	link, err := c.do(req)
	c.logUpload(ctx, "upload.blob", filename, len(data), start, err)
	return link, err
}

// RehostURL asks the host to fetch and mirror a remote URL.
func (c *Client) RehostURL(ctx context.Context, remote string) (string, error) {
	start := time.Now()

	form := url.Values{}
	form.Set("reqtype", "urlupload")
	form.Set("url", remote)
	if c.userHash != "" {
		form.Set("userhash", c.userHash)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("rehost: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	link, err := c.do(req)
	c.logUpload(ctx, "upload.url", remote, 0, start, err)
	return link, err
}

func (c *Client) do(req *http.Request) (string, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("rehost: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("rehost: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("rehost: status %s", resp.Status)
	}

	link := strings.TrimSpace(string(body))
	// The host answers with a bare URL on success and an error phrase otherwise.
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		return "", fmt.Errorf("rehost: unexpected response %q", logger.SanitizeLimit(link, 120))
	}
	return link, nil
}

func (c *Client) logUpload(ctx context.Context, event, name string, size int, start time.Time, err error) {
	attrs := []slog.Attr{
		slog.String("name", name),
		slog.String("status", logger.Status(err)),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	}
	if size > 0 {
		attrs = append(attrs, slog.Int("bytes", size))
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
		logger.Warn(ctx, "rehost", event, attrs...)
		return
	}
	logger.Info(ctx, "rehost", event, attrs...)
}
