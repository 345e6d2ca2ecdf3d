package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JMitchell7425/Trading-Bot/config"
	"github.com/JMitchell7425/Trading-Bot/testutils"
	"github.com/JMitchell7425/Trading-Bot/types"
)

func newTestServer(t *testing.T) (*Server, *testutils.MockBroker, *testutils.MemoryTradeLog) {
	t.Helper()
	cfg := config.Default()
	cfg.Symbols = []string{"AAPL"}
	trades := testutils.NewMemoryTradeLog()
	portfolio := testutils.NewMemoryPortfolioLog()
	b := testutils.NewMockBroker(10_000)
	s := NewServer(config.NewStore(cfg), trades, portfolio, b, testutils.NewMockLogger())
	return s, b, trades
}

func TestDashboardRenders(t *testing.T) {
	s, b, trades := newTestServer(t)
	b.SetPosition(types.Position{Symbol: "AAPL", Qty: 5, EntryPrice: 100})
	trades.Append(types.TradeEvent{
		Timestamp: time.Now(), Symbol: "AAPL", Action: types.ActionBuy, Price: 100,
	})

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("dashboard returned %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "AAPL") || !strings.Contains(body, "portfolioChart") {
		t.Fatal("dashboard should render positions and the equity chart")
	}
}

func TestGetConfig(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/config", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/config returned %d", w.Code)
	}
	var got config.StrategyConfig
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if got.Mode != config.ModeConservative || got.RSIBuyThreshold != 40 {
		t.Fatalf("unexpected config payload: %+v", got)
	}
}

func TestPutConfig_AppliesValidUpdate(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/config",
		strings.NewReader(`{"mode":"aggressive","rsi_buy_threshold":35}`))
	req.Header.Set("Content-Type", "application/json")
	s.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("PUT /api/config returned %d: %s", w.Code, w.Body.String())
	}
	snap := s.cfg.Snapshot()
	if snap.Mode != config.ModeAggressive || snap.RSIBuyThreshold != 35 {
		t.Fatalf("update not applied: %+v", snap)
	}
	// Fields absent from the payload keep their previous values.
	if snap.RSISellThreshold != 65 {
		t.Fatalf("partial update clobbered untouched fields: %+v", snap)
	}
}

func TestPutConfig_RejectsInvalidUpdate(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/config",
		strings.NewReader(`{"rsi_buy_threshold":150}`))
	req.Header.Set("Content-Type", "application/json")
	s.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("out-of-range threshold should 400, got %d", w.Code)
	}
	if got := s.cfg.Snapshot().RSIBuyThreshold; got != 40 {
		t.Fatalf("rejected update must not change the running config, got %v", got)
	}
}

func TestTradesEndpointNewestFirst(t *testing.T) {
	s, _, trades := newTestServer(t)
	base := time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)
	trades.Append(types.TradeEvent{Timestamp: base, Symbol: "AAPL", Action: types.ActionBuy, Price: 100})
	trades.Append(types.TradeEvent{Timestamp: base.Add(time.Minute), Symbol: "AAPL", Action: types.ActionSell, Price: 105})

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/trades", nil))

	var got []types.TradeEvent
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode trades: %v", err)
	}
	if len(got) != 2 || got[0].Action != types.ActionSell {
		t.Fatalf("expected newest-first trade list, got %+v", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _, _ := newTestServer(t)

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("/metrics returned %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "go_") {
		t.Fatal("expected prometheus exposition output")
	}
}
