package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"smartMatchApp/internal/domain/model"
	"smartMatchApp/internal/domain/repository"
	"smartMatchApp/internal/domain/useCases"
)

const (
	statsWindowShort = 90 * 24 * time.Hour
	statsWindowLong  = 5 * 365 * 24 * time.Hour

	maxTokenDetail = 5
)

// EnrichmentCache is a time-boxed cache fronting the external data provider.
// Entries are keyed by wallet address and carry one shared timestamp for both
// payload kinds: refreshing either kind renews the whole entry. Provider
// failures never surface; the cache degrades to deterministic synthetic data
// and caches that too, so a broken provider is not retried within the TTL.
type EnrichmentCache struct {
	mu      sync.RWMutex
	entries map[string]*model.Enrichment

	group     singleflight.Group
	provider  repository.FetchProvider
	snapshots repository.EnrichmentSnapshots // optional, may be nil

	ttl       time.Duration
	timeout   time.Duration
	baseAsset string
	log       *slog.Logger
	now       func() time.Time
}

func NewEnrichmentCache(provider repository.FetchProvider, snapshots repository.EnrichmentSnapshots, ttl, timeout time.Duration, baseAsset string, log *slog.Logger) *EnrichmentCache {
	return &EnrichmentCache{
		entries:   make(map[string]*model.Enrichment),
		provider:  provider,
		snapshots: snapshots,
		ttl:       ttl,
		timeout:   timeout,
		baseAsset: baseAsset,
		log:       log,
		now:       time.Now,
	}
}

// Stats returns the statistics payload for a wallet, fetching from the
// provider on a cold or expired entry.
func (c *EnrichmentCache) Stats(ctx context.Context, wallet string) (*model.TradingStats, error) {
	if e := c.freshEntry(wallet); e != nil && e.Stats != nil {
		return e.Stats, nil
	}

	// singleflight keyed per wallet+kind: concurrent misses for the same
	// wallet trigger at most one provider call
	v, err, _ := c.group.Do(wallet+":stats", func() (interface{}, error) {
		if e := c.freshEntry(wallet); e != nil && e.Stats != nil {
			return e.Stats, nil
		}
		stats := c.fetchStats(ctx, wallet)
		c.store(wallet, stats, nil)
		return stats, nil
	})
	if err != nil {
		// fetchStats never errors, but keep the contract honest
		return SyntheticStats(wallet), nil
	}
	return v.(*model.TradingStats), nil
}

// Balance returns the balance payload for a wallet, fetching from the
// provider on a cold or expired entry.
func (c *EnrichmentCache) Balance(ctx context.Context, wallet string) (*model.Balance, error) {
	if e := c.freshEntry(wallet); e != nil && e.Balance != nil {
		return e.Balance, nil
	}

	v, err, _ := c.group.Do(wallet+":balance", func() (interface{}, error) {
		if e := c.freshEntry(wallet); e != nil && e.Balance != nil {
			return e.Balance, nil
		}
		bal := c.fetchBalance(ctx, wallet)
		c.store(wallet, nil, bal)
		return bal, nil
	})
	if err != nil {
		return SyntheticBalance(wallet, c.baseAsset), nil
	}
	return v.(*model.Balance), nil
}

// InvalidateAll drops every entry and returns the count removed.
func (c *EnrichmentCache) InvalidateAll() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]*model.Enrichment)
	return n
}

// EvictExpired removes entries whose age exceeds the TTL, independent of the
// lazy per-key check. Called before every feed assembly.
func (c *EnrichmentCache) EvictExpired() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for wallet, e := range c.entries {
		if now.Sub(e.FetchedAt) >= c.ttl {
			delete(c.entries, wallet)
			removed++
		}
	}
	return removed
}

// freshEntry returns the entry for a wallet if it exists and is within TTL.
func (c *EnrichmentCache) freshEntry(wallet string) *model.Enrichment {
	c.mu.RLock()
	e, ok := c.entries[wallet]
	c.mu.RUnlock()
	if ok && c.now().Sub(e.FetchedAt) < c.ttl {
		return e
	}
	if !ok && c.snapshots != nil {
		if snap, err := c.snapshots.Load(context.Background(), wallet); err == nil && snap != nil {
			if c.now().Sub(snap.FetchedAt) < c.ttl {
				c.mu.Lock()
				c.entries[wallet] = snap
				c.mu.Unlock()
				return snap
			}
		}
	}
	return nil
}

// store merges the fetched kind into the wallet's entry and renews the
// shared timestamp, so both kinds expire together.
func (c *EnrichmentCache) store(wallet string, stats *model.TradingStats, bal *model.Balance) {
	c.mu.Lock()
	e, ok := c.entries[wallet]
	if !ok {
		e = &model.Enrichment{WalletAddress: wallet}
		c.entries[wallet] = e
	}
	if stats != nil {
		e.Stats = stats
	}
	if bal != nil {
		e.Balance = bal
	}
	e.FetchedAt = c.now()
	snapshot := *e
	c.mu.Unlock()

	if c.snapshots != nil {
		if err := c.snapshots.Save(context.Background(), &snapshot); err != nil {
			c.log.Debug("enrichment snapshot save failed", slog.String("wallet", wallet), slog.Any("error", err))
		}
	}
}

// fetchStats asks the provider for a 90-day window, retries once with a
// multi-year window when the short window shows no activity, and falls back
// to synthetic data on any failure. The provider call runs under its own
// timeout with no cache lock held.
func (c *EnrichmentCache) fetchStats(ctx context.Context, wallet string) *model.TradingStats {
	if !c.provider.Configured() {
		return SyntheticStats(wallet)
	}

	fctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	to := c.now()
	stats, err := c.provider.FetchStatistics(fctx, wallet, to.Add(-statsWindowShort), to)
	if err != nil {
		c.log.Warn("stats fetch failed, serving synthetic data", slog.String("wallet", wallet), slog.Any("error", err))
		return SyntheticStats(wallet)
	}
	stats.Window = model.Window90D

	if stats.TotalTrades == 0 {
		long, err := c.provider.FetchStatistics(fctx, wallet, to.Add(-statsWindowLong), to)
		if err == nil {
			long.Window = model.WindowAllTime
			stats = long
		}
	}

	stats.TotalPnlDisplay = FormatMoney(stats.TotalPnlUsd)
	return stats
}

// fetchBalance asks the provider for current holdings and derives the
// totals, falling back to synthetic data on any failure.
func (c *EnrichmentCache) fetchBalance(ctx context.Context, wallet string) *model.Balance {
	if !c.provider.Configured() {
		return SyntheticBalance(wallet, c.baseAsset)
	}

	fctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	bal, err := c.provider.FetchBalance(fctx, wallet)
	if err != nil {
		c.log.Warn("balance fetch failed, serving synthetic data", slog.String("wallet", wallet), slog.Any("error", err))
		return SyntheticBalance(wallet, c.baseAsset)
	}

	var total float64
	for _, t := range bal.Tokens {
		total += t.AmountUsd
		if t.Symbol == c.baseAsset {
			bal.BaseAssetAmount = t.AmountNative
		}
	}
	bal.TotalUsd = total
	bal.TokenCount = len(bal.Tokens)
	bal.TotalUsdDisplay = FormatMoney(bal.TotalUsd)
	// keep only the largest holdings in the payload detail
	if len(bal.Tokens) > maxTokenDetail {
		bal.Tokens = bal.Tokens[:maxTokenDetail]
	}
	return bal
}

// Ensure interface compliance
var _ useCases.EnrichmentService = (*EnrichmentCache)(nil)
