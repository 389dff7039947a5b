package model

import "time"

// Identity is a participant keyed by wallet address. Rows are created on
// registration or on first profile completion and are never deleted.
type Identity struct {
	ID            string
	WalletAddress string
	TraderNumber  int // monotonically assigned on first profile completion, 0 until then
	Bio           string
	Country       string
	FavouriteCT   string
	WorstCT       string
	TradingVenue  string
	AssetChoice6M string
	Twitter       string
	IsFiller      bool // seeded demo trader, not a real submission
	CreatedAt     time.Time
}

// ProfileUpdate carries the fields a participant submits when completing
// their profile. Pointers distinguish "leave unchanged" from "set empty".
type ProfileUpdate struct {
	Bio           *string
	Country       *string
	FavouriteCT   *string
	WorstCT       *string
	TradingVenue  *string
	AssetChoice6M *string
	Twitter       *string
}
