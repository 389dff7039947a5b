package service

import (
	"hash/fnv"

	"smartMatchApp/internal/domain/model"
)

// Synthetic fallback data. All numbers derive from an FNV-1a hash of the
// wallet string, so the same wallet yields the same payload on every call
// and across process restarts.

func walletHash(wallet, salt string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(wallet))
	h.Write([]byte(salt))
	return h.Sum64()
}

// SyntheticStats builds a deterministic statistics payload for a wallet.
func SyntheticStats(wallet string) *model.TradingStats {
	h := walletHash(wallet, "pnl")
	s := &model.TradingStats{
		TotalPnlUsd:      float64(1000 + h%50000),
		PnlPercent:       float64(10 + h%100),
		WinRate:          float64(50 + h%40),
		TotalTrades:      int(100 + h%500),
		TradedTokenCount: int(5 + h%20),
		Window:           model.Window90D,
		Synthetic:        true,
	}
	s.TotalPnlDisplay = FormatMoney(s.TotalPnlUsd)
	return s
}

// SyntheticBalance builds a deterministic balance payload for a wallet.
func SyntheticBalance(wallet, baseAsset string) *model.Balance {
	total := float64(10000 + walletHash(wallet, "balance")%100000)
	native := float64(50 + walletHash(wallet, "native")%500)
	b := &model.Balance{
		TotalUsd:        total,
		BaseAssetAmount: native,
		TokenCount:      int(5 + walletHash(wallet, "tokens")%20),
		Tokens: []model.TokenHolding{
			{Symbol: baseAsset, AmountUsd: total, AmountNative: native},
		},
		Synthetic: true,
	}
	b.TotalUsdDisplay = FormatMoney(b.TotalUsd)
	return b
}
