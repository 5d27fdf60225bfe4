package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"menubot/internal/domain"
	"menubot/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	fail  bool
	texts []string
}

func (f *fakeNotifier) SendOrder(_ context.Context, text string) error {
	if f.fail {
		return errors.New("unreachable")
	}
	f.texts = append(f.texts, text)
	return nil
}

func newTestServer() (*Server, *store.Memory) {
	mem := store.NewMemory()
	return NewServer(mem, 5), mem
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestPing(t *testing.T) {
	s, _ := newTestServer()
	rec := do(t, s, http.MethodGet, "/api/ping", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestProbeMethods(t *testing.T) {
	s, _ := newTestServer()

	rec := do(t, s, http.MethodHead, "/api/menu", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, s, http.MethodOptions, "/api/menu", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, s, http.MethodDelete, "/api/menu", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMenuGetDefault(t *testing.T) {
	s, _ := newTestServer()
	rec := do(t, s, http.MethodGet, "/api/menu", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestMenuPostThenGet(t *testing.T) {
	s, _ := newTestServer()

	rec := do(t, s, http.MethodPost, "/api/menu",
		`[{"id":"a","name":"OG Kush","cat":"indica","prices":[{"qte":"3.5g","price":25}]}]`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/menu", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "OG Kush")
	assert.Contains(t, rec.Body.String(), `"qte":"3.5g"`)
}

func TestMenuPostAssignsIDs(t *testing.T) {
	s, mem := newTestServer()

	rec := do(t, s, http.MethodPost, "/api/menu", `[{"name":"NoID"}]`)
	require.Equal(t, http.StatusOK, rec.Code)

	products, err := store.NewCatalog(mem).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.NotEmpty(t, products[0].ID)
}

func TestMenuPostBadJSON(t *testing.T) {
	s, _ := newTestServer()
	rec := do(t, s, http.MethodPost, "/api/menu", `{"not":"a list"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSiteConfigDefaultAndRoundTrip(t *testing.T) {
	s, _ := newTestServer()

	rec := do(t, s, http.MethodGet, "/api/site-config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.DefaultAccessCode)

	rec = do(t, s, http.MethodPost, "/api/site-config",
		`{"access_code":"sesame","promo":{"enabled":true,"text":"2 for 1","scroll_speed":40}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/api/site-config", "")
	assert.Contains(t, rec.Body.String(), "sesame")
	assert.Contains(t, rec.Body.String(), "2 for 1")
}

func TestLoyaltyGetRequiresUser(t *testing.T) {
	s, _ := newTestServer()
	rec := do(t, s, http.MethodGet, "/api/loyalty", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoyaltyFlow(t *testing.T) {
	s, _ := newTestServer()

	// Fresh user: zero orders, fallback threshold of 5.
	rec := do(t, s, http.MethodGet, "/api/loyalty?user=@Alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":"alice","count":0,"threshold":5,"eligible":false}`, rec.Body.String())

	// Five orders reach eligibility.
	for i := 0; i < 5; i++ {
		rec = do(t, s, http.MethodPost, "/api/loyalty", `{"user":"alice"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/api/loyalty?user=alice", "")
	assert.JSONEq(t, `{"user":"alice","count":5,"threshold":5,"eligible":true}`, rec.Body.String())
}

func TestLoyaltyThresholdFromConfig(t *testing.T) {
	s, mem := newTestServer()
	ctx := context.Background()

	cfg := domain.DefaultSiteConfig()
	cfg.Loyalty.RequiredOrders = 2
	require.NoError(t, store.NewConfig(mem).Save(ctx, cfg))
	require.NoError(t, store.NewLoyalty(mem).SetCount(ctx, "bob", 2))

	rec := do(t, s, http.MethodGet, "/api/loyalty?user=bob", "")
	assert.JSONEq(t, `{"user":"bob","count":2,"threshold":2,"eligible":true}`, rec.Body.String())
}

func TestLoyaltyPostExplicitCount(t *testing.T) {
	s, _ := newTestServer()

	rec := do(t, s, http.MethodPost, "/api/loyalty", `{"user":"carol","count":9}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":"carol","count":9}`, rec.Body.String())
}

func TestSendOrder(t *testing.T) {
	s, _ := newTestServer()
	n := &fakeNotifier{}
	s.SetNotifier(n)

	rec := do(t, s, http.MethodPost, "/api/send-order", `{"order":"2x OG Kush 3.5g"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, n.texts, 1)
	assert.Equal(t, "2x OG Kush 3.5g", n.texts[0])
}

func TestSendOrderFailures(t *testing.T) {
	s, _ := newTestServer()

	// No notifier attached yet.
	rec := do(t, s, http.MethodPost, "/api/send-order", `{"order":"x"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s.SetNotifier(&fakeNotifier{fail: true})
	rec = do(t, s, http.MethodPost, "/api/send-order", `{"order":"x"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/send-order", `{"order":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
