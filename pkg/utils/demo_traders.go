// Package utils carries small helpers shared across binaries, including the
// built-in demo trader roster used to keep a fresh deployment's feed alive.
package utils

import (
	"context"
	"fmt"

	"smartMatchApp/internal/domain/repository"
	"smartMatchApp/internal/domain/service"
)

// DemoTraders are real Solana trader addresses with playful bios. They are
// seeded as filler identities when the database is empty and keep serving as
// feed fillers afterwards.
var DemoTraders = []service.FillerProfile{
	{
		WalletAddress: "ERjMXMF6AVnMckiQb6zvTEcaCVc7iBpNqmtbNVjeKCpc",
		Bio:           "degen since '21. made 420% on BONK before it was cool\n\nonly trade in crocs btw. YOLO is my risk management 💀",
	},
	{
		WalletAddress: "99HXufoq4yepb8hNKgd1ghXRKMwAfMoXCZjAdXxXyEUh",
		Bio:           "Quant trader, Got rugged once and never recovered emotionally... 200 IQ, 0 social skills. Will marry whoever invented MEV fr",
	},
	{
		WalletAddress: "Au1GUWfcadx7jMzhsg6gHGUgViYJrnPfL1vbdqnvLK4i",
		Bio:           "💎 DIAMOND HANDS OR FOOD STAMPS 💎\nLost my house keys but never my seed phrase\nSurvived: 3 bear markets, 1 divorce",
	},
	{
		WalletAddress: "8J6UcrwcSj6i9FdGeLYHUWNYiJrqhEAVJbWhjtBZvwHT",
		Bio:           "If it doesn't 100x in 24hrs I'm not interested \n\nSleep is for people without alpha. My therapist told me to log off (I didn't)",
	},
	{
		WalletAddress: "EdAsdt7JY6fcBYNbzY4HxXTEWSupiQMdRS3KjNLuSLKy",
		Bio:           "🧙‍♂️ wizard of the orderbook\n\ni see liquidity pools in my dreams\n\nonce made $50k in 10 mins then lost it in 11 lol",
	},
	{
		WalletAddress: "7Hkpf3NJwCdcnDqwZMTR1d76pHnfeyqnP8vxrV4TLKHR",
		Bio:           "not a whale but I identify as one | bot operator with feelings | married to volatility, divorced from stability",
	},
	{
		WalletAddress: "EvwaHadVPP7bTdmfc4cxk3Pz5sr638sVUq1BJY8HArW7",
		Bio:           "SPEED TRADER\nHaven't touched grass since Jupiter launched\n(living on energy drinks)",
	},
	{
		WalletAddress: "2CSqY1nUFZbuznxY3PUMWdBUif6WAqsTWtrfZKJQUgTb",
		Bio:           "Professional gambler who found Solana 🎲 Somehow up 300% YTD?? My secret? Being too dumb to panic sell 🤷",
	},
	{
		WalletAddress: "6jMQdtwEAfoBvKdE4HYGTdHCRSxYfCrgPmjQ6rnGr5mn",
		Bio:           "night owl trader\nbest trades happen at 3am coffee-powered memecoin connoisseur\n\n'trust me bro' is my DD",
	},
}

// SeedDemoTraders inserts the demo roster when the store holds no identities
// at all. Returns the number of rows inserted.
func SeedDemoTraders(ctx context.Context, store repository.Store) (int, error) {
	count, err := store.CountIdentities(ctx)
	if err != nil {
		return 0, fmt.Errorf("count identities: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	seeded := 0
	for _, trader := range DemoTraders {
		if err := store.SeedFillerIdentity(ctx, trader.WalletAddress, trader.Bio); err != nil {
			return seeded, fmt.Errorf("seed %s: %w", trader.WalletAddress, err)
		}
		seeded++
	}
	return seeded, nil
}
