package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/JMitchell7425/Trading-Bot/types"
)

// AlpacaClient talks to the Alpaca v2 REST API. All requests share one
// rate limiter (the free tier allows 200 requests/min) and a hard
// per-request timeout so a slow upstream can never stall a pass.
type AlpacaClient struct {
	baseURL string
	dataURL string
	key     string
	secret  string
	http    *http.Client
	limiter *rate.Limiter
}

// AlpacaOptions configures an AlpacaClient. Zero values fall back to the
// paper-trading endpoints and a 10s timeout.
type AlpacaOptions struct {
	BaseURL string // e.g. https://paper-api.alpaca.markets
	DataURL string // e.g. https://data.alpaca.markets
	Key     string
	Secret  string
	Timeout time.Duration
}

// NewAlpacaClient builds a rate-limited REST client.
func NewAlpacaClient(opts AlpacaOptions) *AlpacaClient {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://paper-api.alpaca.markets"
	}
	if opts.DataURL == "" {
		opts.DataURL = "https://data.alpaca.markets"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &AlpacaClient{
		baseURL: opts.BaseURL,
		dataURL: opts.DataURL,
		key:     opts.Key,
		secret:  opts.Secret,
		http:    &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Limit(200.0/60.0), 10),
	}
}

func (c *AlpacaClient) do(ctx context.Context, method, rawURL string, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("APCA-API-KEY-ID", c.key)
	req.Header.Set("APCA-API-SECRET-KEY", c.secret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

type alpacaBar struct {
	T time.Time `json:"t"`
	O float64   `json:"o"`
	H float64   `json:"h"`
	L float64   `json:"l"`
	C float64   `json:"c"`
	V float64   `json:"v"`
}

// GetBars fetches up to limit bars for symbol at the given timeframe
// (e.g. "1Min"), oldest first.
func (c *AlpacaClient) GetBars(ctx context.Context, symbol, timeframe string, limit int) ([]types.Bar, error) {
	q := url.Values{}
	q.Set("timeframe", timeframe)
	q.Set("limit", strconv.Itoa(limit))
	u := fmt.Sprintf("%s/v2/stocks/%s/bars?%s", c.dataURL, url.PathEscape(symbol), q.Encode())

	resp, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrDataUnavailable, resp.StatusCode)
	}
	var payload struct {
		Bars []alpacaBar `json:"bars"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	bars := make([]types.Bar, 0, len(payload.Bars))
	for _, b := range payload.Bars {
		bars = append(bars, types.Bar{
			Timestamp: b.T, Open: b.O, High: b.H, Low: b.L, Close: b.C, Volume: b.V,
		})
	}
	return bars, nil
}

// Equity reads the account's current equity.
func (c *AlpacaClient) Equity(ctx context.Context) (float64, error) {
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+"/v2/account", nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAccountUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", ErrAccountUnavailable, resp.StatusCode)
	}
	var payload struct {
		Equity string `json:"equity"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAccountUnavailable, err)
	}
	eq, err := strconv.ParseFloat(payload.Equity, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad equity %q", ErrAccountUnavailable, payload.Equity)
	}
	return eq, nil
}

type alpacaPosition struct {
	Symbol        string `json:"symbol"`
	Qty           string `json:"qty"`
	AvgEntryPrice string `json:"avg_entry_price"`
	Side          string `json:"side"`
}

func (p alpacaPosition) toPosition() (types.Position, error) {
	qty, err := strconv.ParseFloat(p.Qty, 64)
	if err != nil {
		return types.Position{}, err
	}
	entry, err := strconv.ParseFloat(p.AvgEntryPrice, 64)
	if err != nil {
		return types.Position{}, err
	}
	if p.Side == "short" && qty > 0 {
		qty = -qty
	}
	return types.Position{Symbol: p.Symbol, Qty: qty, EntryPrice: entry}, nil
}

// Position returns the open position for symbol, ok=false when flat
// (Alpaca answers 404 for no position).
func (c *AlpacaClient) Position(ctx context.Context, symbol string) (types.Position, bool, error) {
	u := c.baseURL + "/v2/positions/" + url.PathEscape(symbol)
	resp, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return types.Position{}, false, fmt.Errorf("%w: %v", ErrAccountUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return types.Position{}, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return types.Position{}, false, fmt.Errorf("%w: status %d", ErrAccountUnavailable, resp.StatusCode)
	}
	var payload alpacaPosition
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return types.Position{}, false, fmt.Errorf("%w: %v", ErrAccountUnavailable, err)
	}
	pos, err := payload.toPosition()
	if err != nil {
		return types.Position{}, false, fmt.Errorf("%w: %v", ErrAccountUnavailable, err)
	}
	return pos, true, nil
}

// ListPositions returns every open position.
func (c *AlpacaClient) ListPositions(ctx context.Context) ([]types.Position, error) {
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+"/v2/positions", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccountUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrAccountUnavailable, resp.StatusCode)
	}
	var payload []alpacaPosition
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccountUnavailable, err)
	}
	out := make([]types.Position, 0, len(payload))
	for _, p := range payload {
		pos, err := p.toPosition()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAccountUnavailable, err)
		}
		out = append(out, pos)
	}
	return out, nil
}

// SubmitOrder places a market/GTC order. The generated client_order_id
// makes an accidental double-submit idempotent on the broker side.
func (c *AlpacaClient) SubmitOrder(ctx context.Context, o types.Order) error {
	payload := map[string]any{
		"symbol":          o.Symbol,
		"qty":             strconv.Itoa(o.Qty),
		"side":            string(o.Side),
		"type":            "market",
		"time_in_force":   "gtc",
		"client_order_id": uuid.NewString(),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/v2/orders", bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOrderRejected, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrOrderRejected, resp.StatusCode, body)
	}
	return nil
}
