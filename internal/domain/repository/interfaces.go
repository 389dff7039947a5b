// Package repository defines the collaborator interfaces the domain services
// depend on. Following the dependency inversion principle, domain logic
// depends on these interfaces and infrastructure packages provide the
// concrete implementations.
package repository

import (
	"context"
	"time"

	"smartMatchApp/internal/domain/model"
)

// Store is the storage collaborator. Two interchangeable implementations
// exist (Postgres and SQLite), selected once at startup; call sites never
// branch on the backend.
type Store interface {
	// UpsertIdentity creates the identity if its wallet address is unknown
	// and returns the stored row either way, with created=true on insert.
	UpsertIdentity(ctx context.Context, wallet string) (identity *model.Identity, created bool, err error)

	// GetIdentity resolves a wallet address. Returns model.ErrNotFound when
	// no row exists.
	GetIdentity(ctx context.Context, wallet string) (*model.Identity, error)

	// UpdateProfile applies profile fields to an existing identity and
	// assigns the next trader number on first completion.
	UpdateProfile(ctx context.Context, wallet string, fields model.ProfileUpdate) (*model.Identity, error)

	// ListIdentities returns all identities with real submitted profiles,
	// most recently created first.
	ListIdentities(ctx context.Context) ([]*model.Identity, error)

	// CountIdentities returns the total number of identity rows.
	CountIdentities(ctx context.Context) (int, error)

	// SeedFillerIdentity inserts a filler identity with the given bio,
	// a no-op when the wallet already exists.
	SeedFillerIdentity(ctx context.Context, wallet, bio string) error

	// InsertSwipe appends a swipe decision.
	InsertSwipe(ctx context.Context, swipe *model.Swipe) error

	// HasReciprocalRightSwipe reports whether target has right-swiped actor.
	HasReciprocalRightSwipe(ctx context.Context, actorWallet, targetWallet string) (bool, error)

	// ListSwipedTargets returns every wallet the actor has ever swiped on.
	ListSwipedTargets(ctx context.Context, actorID string) ([]string, error)

	// InsertMatch persists a match row.
	InsertMatch(ctx context.Context, match *model.Match) error

	// FindMatchByPair looks up the match for an unordered wallet pair.
	// Returns model.ErrNotFound when the pair has never matched.
	FindMatchByPair(ctx context.Context, walletA, walletB string) (*model.Match, error)

	// ListMatches returns all matches involving the wallet, newest first.
	ListMatches(ctx context.Context, wallet string) ([]*model.Match, error)

	// InsertMessage persists a chat message.
	InsertMessage(ctx context.Context, msg *model.Message) error

	// ListMessages returns up to limit messages of a room ordered oldest
	// first, ready for delivery. Implementations page newest-first then
	// reverse.
	ListMessages(ctx context.Context, roomID string, limit int) ([]*model.Message, error)

	Close() error
}

// FetchProvider is the slow, rate-limited external data source fronted by
// the enrichment cache. Implementations must honor the context deadline.
type FetchProvider interface {
	// FetchStatistics returns trading statistics for the wallet inside the
	// given window.
	FetchStatistics(ctx context.Context, wallet string, from, to time.Time) (*model.TradingStats, error)

	// FetchBalance returns the wallet's current holdings.
	FetchBalance(ctx context.Context, wallet string) (*model.Balance, error)

	// Configured reports whether the provider has credentials. When false
	// the cache skips the network entirely and serves synthetic data.
	Configured() bool
}

// EnrichmentSnapshots is an optional shared store for enrichment entries
// (Redis-backed in production). The in-process cache stays authoritative;
// snapshots only warm a cold process.
type EnrichmentSnapshots interface {
	Save(ctx context.Context, e *model.Enrichment) error
	Load(ctx context.Context, wallet string) (*model.Enrichment, error)
}

// ActivitySink is durable append-only storage for activity events,
// ClickHouse-backed when configured.
type ActivitySink interface {
	SaveEvent(ctx context.Context, ev *model.ActivityEvent) error
	Close() error
}
