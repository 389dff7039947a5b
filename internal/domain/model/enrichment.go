package model

import "time"

// WindowLabel marks which fetch window produced a statistics payload.
type WindowLabel string

const (
	Window90D     WindowLabel = "90d"
	WindowAllTime WindowLabel = "all_time"
)

// TradingStats is the statistics payload attached to a candidate profile.
// Monetary fields carry a pre-rendered human-readable form next to the raw
// number so the transport layer never re-formats.
type TradingStats struct {
	TotalPnlUsd      float64     `json:"total_pnl"`
	TotalPnlDisplay  string      `json:"total_pnl_display"`
	PnlPercent       float64     `json:"pnl_percentage"`
	WinRate          float64     `json:"win_rate"`
	TotalTrades      int         `json:"total_trades"`
	TradedTokenCount int         `json:"traded_token_count"`
	Window           WindowLabel `json:"window"`
	Synthetic        bool        `json:"synthetic"`
}

// TokenHolding is one entry of a wallet's current balance.
type TokenHolding struct {
	Symbol       string  `json:"token_symbol"`
	AmountUsd    float64 `json:"value_usd"`
	AmountNative float64 `json:"token_amount"`
}

// Balance is the balance payload attached to a candidate profile.
type Balance struct {
	TotalUsd        float64        `json:"total_balance_usd"`
	TotalUsdDisplay string         `json:"total_balance_display"`
	BaseAssetAmount float64        `json:"sol_balance"`
	TokenCount      int            `json:"token_count"`
	Tokens          []TokenHolding `json:"tokens,omitempty"`
	Synthetic       bool           `json:"synthetic"`
}

// Enrichment bundles both payload kinds for one identity. The timestamp is
// shared: refreshing either kind renews the whole entry, so both kinds
// expire together.
type Enrichment struct {
	WalletAddress string
	Stats         *TradingStats
	Balance       *Balance
	FetchedAt     time.Time
}

// ProfileView is one feed entry: identity attributes merged with the
// enrichment payloads plus the filler flag.
type ProfileView struct {
	WalletAddress string        `json:"wallet_address"`
	TraderNumber  int           `json:"trader_number,omitempty"`
	Bio           string        `json:"bio,omitempty"`
	Country       string        `json:"country,omitempty"`
	FavouriteCT   string        `json:"favourite_ct_account,omitempty"`
	WorstCT       string        `json:"worst_ct_account,omitempty"`
	TradingVenue  string        `json:"favourite_trading_venue,omitempty"`
	AssetChoice6M string        `json:"asset_choice_6m,omitempty"`
	Twitter       string        `json:"twitter_account,omitempty"`
	IsFiller      bool          `json:"is_filler"`
	Stats         *TradingStats `json:"pnl_summary"`
	Balance       *Balance      `json:"balance"`
}
