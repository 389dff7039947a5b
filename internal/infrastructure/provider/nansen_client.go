// Package provider implements the external trading-data client. It talks to
// the Nansen profiler API; callers front it with the enrichment cache and
// never hit it directly per request.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"smartMatchApp/internal/domain/model"
	"smartMatchApp/internal/domain/repository"
)

const (
	pnlSummaryPath     = "/profiler/address/pnl-summary"
	currentBalancePath = "/profiler/address/current-balance"

	balancePageSize = 10
)

// NansenClient fetches trading statistics and balances from the Nansen API.
// The API key may be set after construction; until then Configured reports
// false and callers should not issue requests.
type NansenClient struct {
	baseURL string
	chain   string
	http    *http.Client

	mu     sync.RWMutex
	apiKey string
}

func NewNansenClient(baseURL, apiKey, chain string, timeout time.Duration) *NansenClient {
	return &NansenClient{
		baseURL: baseURL,
		chain:   chain,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

var _ repository.FetchProvider = (*NansenClient)(nil)

// SetAPIKey swaps the credential at runtime.
func (c *NansenClient) SetAPIKey(key string) {
	c.mu.Lock()
	c.apiKey = key
	c.mu.Unlock()
}

func (c *NansenClient) key() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

func (c *NansenClient) Configured() bool {
	return c.key() != ""
}

type dateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type pnlRequest struct {
	Address string    `json:"address"`
	Chain   string    `json:"chain"`
	Date    dateRange `json:"date"`
}

type pnlResponse struct {
	RealizedPnlUsd     float64 `json:"realized_pnl_usd"`
	RealizedPnlPercent float64 `json:"realized_pnl_percent"`
	WinRate            float64 `json:"win_rate"`
	TradedTimes        int     `json:"traded_times"`
	TradedTokenCount   int     `json:"traded_token_count"`
}

// FetchStatistics queries the pnl-summary endpoint for the given window.
// Ratio fields come back as fractions and are converted to percentages here.
func (c *NansenClient) FetchStatistics(ctx context.Context, wallet string, from, to time.Time) (*model.TradingStats, error) {
	req := pnlRequest{
		Address: wallet,
		Chain:   c.chain,
		Date: dateRange{
			From: from.UTC().Format("2006-01-02") + "T00:00:00Z",
			To:   to.UTC().Format("2006-01-02") + "T23:59:59Z",
		},
	}

	var resp pnlResponse
	if err := c.post(ctx, pnlSummaryPath, req, &resp); err != nil {
		return nil, err
	}

	return &model.TradingStats{
		TotalPnlUsd:      resp.RealizedPnlUsd,
		PnlPercent:       resp.RealizedPnlPercent * 100,
		WinRate:          resp.WinRate * 100,
		TotalTrades:      resp.TradedTimes,
		TradedTokenCount: resp.TradedTokenCount,
	}, nil
}

type pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

type balanceRequest struct {
	Address       string     `json:"address"`
	Chain         string     `json:"chain"`
	HideSpamToken bool       `json:"hide_spam_token"`
	Pagination    pagination `json:"pagination"`
}

type balanceResponse struct {
	Data []model.TokenHolding `json:"data"`
}

// FetchBalance queries the current-balance endpoint. Totals are left for the
// caller to derive from the token list.
func (c *NansenClient) FetchBalance(ctx context.Context, wallet string) (*model.Balance, error) {
	req := balanceRequest{
		Address:       wallet,
		Chain:         c.chain,
		HideSpamToken: true,
		Pagination:    pagination{Page: 1, PerPage: balancePageSize},
	}

	var resp balanceResponse
	if err := c.post(ctx, currentBalancePath, req, &resp); err != nil {
		return nil, err
	}

	return &model.Balance{Tokens: resp.Data}, nil
}

func (c *NansenClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apiKey", c.key())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("call %s: unexpected status %d: %s", path, resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
