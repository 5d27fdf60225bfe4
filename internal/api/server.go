// Package api serves the site-facing HTTP endpoints: catalog and config
// reads/writes, loyalty lookups, order forwarding, and health checks.
package api

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"menubot/core/logger"
	"menubot/internal/domain"
	"menubot/internal/store"

	"github.com/labstack/echo/v4"
	jsoniter "github.com/json-iterator/go"
	"log/slog"
)

var apiJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// OrderNotifier forwards an order message to the operators.
type OrderNotifier interface {
	SendOrder(ctx context.Context, text string) error
}

// Server is the site-facing HTTP API.
type Server struct {
	echo    *echo.Echo
	catalog *store.Catalog
	config  *store.Config
	loyalty *store.Loyalty

	// fallbackThreshold applies when site config carries no loyalty threshold.
	fallbackThreshold int

	mu       sync.RWMutex
	notifier OrderNotifier
}

// NewServer builds the API over a KV backend. The order notifier is attached
// later, once the bot transport is up.
func NewServer(kv store.KV, fallbackThreshold int) *Server {
	s := &Server{
		catalog:           store.NewCatalog(kv),
		config:            store.NewConfig(kv),
		loyalty:           store.NewLoyalty(kv),
		fallbackThreshold: fallbackThreshold,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(probeMiddleware)
	e.Use(requestLogMiddleware)

	e.GET("/api/ping", s.handlePing)
	e.GET("/api/menu", s.handleMenuGet)
	e.POST("/api/menu", s.handleMenuPost)
	e.GET("/api/site-config", s.handleConfigGet)
	e.POST("/api/site-config", s.handleConfigPost)
	e.GET("/api/loyalty", s.handleLoyaltyGet)
	e.POST("/api/loyalty", s.handleLoyaltyPost)
	e.POST("/api/send-order", s.handleSendOrder)

	s.echo = e
	return s
}

// SetNotifier attaches the order notifier.
func (s *Server) SetNotifier(n OrderNotifier) {
	s.mu.Lock()
	s.notifier = n
	s.mu.Unlock()
}

func (s *Server) getNotifier() OrderNotifier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notifier
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start(addr string) error {
	err := s.echo.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// probeMiddleware answers transport probes before routing: HEAD is a health
// check, OPTIONS satisfies CORS preflight.
func probeMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set(echo.HeaderAccessControlAllowOrigin, "*")
		h.Set(echo.HeaderAccessControlAllowMethods, "GET, POST, HEAD, OPTIONS")
		h.Set(echo.HeaderAccessControlAllowHeaders, "Content-Type")

		switch c.Request().Method {
		case http.MethodHead:
			return c.NoContent(http.StatusOK)
		case http.MethodOptions:
			return c.NoContent(http.StatusNoContent)
		}
		return next(c)
	}
}

func requestLogMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		logger.LogEvent(c.Request().Context(), logger.API, slog.LevelInfo, "http.request",
			slog.String("method", c.Request().Method),
			slog.String("path", c.Request().URL.Path),
			slog.Int("code", c.Response().Status),
			slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
		)
		return err
	}
}

func (s *Server) handlePing(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (s *Server) handleMenuGet(c echo.Context) error {
	products, err := s.catalog.Load(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage unavailable"})
	}
	if products == nil {
		products = []domain.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

func (s *Server) handleMenuPost(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
	}

	var products []domain.Product
	if err := apiJSON.Unmarshal(body, &products); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}
	for i := range products {
		products[i].EnsureID()
	}
	if err := s.catalog.Save(c.Request().Context(), products); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"saved": len(products)})
}

func (s *Server) handleConfigGet(c echo.Context) error {
	cfg, err := s.config.Load(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage unavailable"})
	}
	return c.JSON(http.StatusOK, cfg)
}

func (s *Server) handleConfigPost(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
	}

	var cfg domain.SiteConfig
	if err := apiJSON.Unmarshal(body, &cfg); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}
	if cfg.AccessCode == "" {
		cfg.AccessCode = domain.DefaultAccessCode
	}
	if err := s.config.Save(c.Request().Context(), cfg); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"saved": true})
}

type loyaltyResponse struct {
	User      string `json:"user"`
	Count     int    `json:"count"`
	Threshold int    `json:"threshold"`
	Eligible  bool   `json:"eligible"`
}

// threshold resolves the loyalty threshold: site config first, then the
// deployment fallback.
func (s *Server) threshold(ctx context.Context) int {
	cfg, err := s.config.Load(ctx)
	if err == nil && cfg.Loyalty.RequiredOrders > 0 {
		return cfg.Loyalty.RequiredOrders
	}
	return s.fallbackThreshold
}

func (s *Server) handleLoyaltyGet(c echo.Context) error {
	user := store.NormalizeHandle(c.QueryParam("user"))
	if user == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user is required"})
	}

	ctx := c.Request().Context()
	count, err := s.loyalty.Count(ctx, user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage unavailable"})
	}

	th := s.threshold(ctx)
	return c.JSON(http.StatusOK, loyaltyResponse{
		User:      user,
		Count:     count,
		Threshold: th,
		Eligible:  count >= th,
	})
}

type loyaltyUpdate struct {
	User  string `json:"user"`
	Count *int   `json:"count"`
}

// handleLoyaltyPost records an order for a user: with an explicit count the
// counter is set, otherwise it increments by one.
func (s *Server) handleLoyaltyPost(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
	}

	var req loyaltyUpdate
	if err := apiJSON.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}
	user := store.NormalizeHandle(req.User)
	if user == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user is required"})
	}

	ctx := c.Request().Context()
	next := 0
	if req.Count != nil {
		next = *req.Count
	} else {
		current, err := s.loyalty.Count(ctx, user)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage unavailable"})
		}
		next = current + 1
	}
	if err := s.loyalty.SetCount(ctx, user, next); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "storage unavailable"})
	}
	if next < 0 {
		next = 0
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user, "count": next})
}

type orderRequest struct {
	Order string `json:"order"`
}

func (s *Server) handleSendOrder(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
	}

	var req orderRequest
	if err := apiJSON.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON"})
	}
	if strings.TrimSpace(req.Order) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order is required"})
	}

	n := s.getNotifier()
	if n == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "bot not ready"})
	}
	if err := n.SendOrder(c.Request().Context(), req.Order); err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "delivery failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sent": true})
}
