package model

import "time"

// Match is the product of two reciprocal right swipes. At most one row
// exists per unordered wallet pair; the pair shares one chat room forever.
type Match struct {
	ID         string
	WalletA    string
	WalletB    string
	ChatRoomID string
	CreatedAt  time.Time
}

// Counterparty returns the other wallet of the pair, or "" when the given
// wallet is not part of the match.
func (m *Match) Counterparty(wallet string) string {
	switch wallet {
	case m.WalletA:
		return m.WalletB
	case m.WalletB:
		return m.WalletA
	}
	return ""
}
