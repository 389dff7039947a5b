package service

import (
	"context"
	"fmt"
	"log/slog"

	"smartMatchApp/internal/domain/model"
	"smartMatchApp/internal/domain/repository"
	"smartMatchApp/internal/domain/useCases"
)

// FillerProfile is a declared demo trader used to pad the feed when real
// candidates run out. Fillers keep their declared order and are never
// filtered by the enrichment-activity rule.
type FillerProfile struct {
	WalletAddress string
	Bio           string
}

// FeedAssembler composes the directory, the requester's swipe history and
// the enrichment cache into a bounded candidate feed.
type FeedAssembler struct {
	store      repository.Store
	enrichment useCases.EnrichmentService
	fillers    []FillerProfile
	quota      int // stop once this many valid profiles are collected
	scanLimit  int // give up after evaluating this many candidates
	log        *slog.Logger
}

func NewFeedAssembler(store repository.Store, enrichment useCases.EnrichmentService, fillers []FillerProfile, quota, scanLimit int, log *slog.Logger) *FeedAssembler {
	return &FeedAssembler{
		store:      store,
		enrichment: enrichment,
		fillers:    fillers,
		quota:      quota,
		scanLimit:  scanLimit,
		log:        log,
	}
}

type candidate struct {
	wallet   string
	identity *model.Identity
	filler   bool
}

// BuildFeed returns up to quota candidate profiles for the requester,
// excluding the requester and every wallet they already swiped on. Real
// profiles come first, newest first, then the declared fillers.
func (f *FeedAssembler) BuildFeed(ctx context.Context, requesterWallet string) ([]*model.ProfileView, error) {
	requester, err := f.store.GetIdentity(ctx, requesterWallet)
	if err != nil {
		return nil, fmt.Errorf("resolve requester: %w", err)
	}

	swiped, err := f.store.ListSwipedTargets(ctx, requester.ID)
	if err != nil {
		return nil, fmt.Errorf("list swiped targets: %w", err)
	}
	excluded := make(map[string]struct{}, len(swiped)+1)
	excluded[requesterWallet] = struct{}{}
	for _, w := range swiped {
		excluded[w] = struct{}{}
	}

	// passive sweep before assembling, independent of per-key expiry
	if n := f.enrichment.EvictExpired(); n > 0 {
		f.log.Debug("evicted expired enrichment entries", slog.Int("count", n))
	}

	candidates, err := f.orderedCandidates(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*model.ProfileView, 0, f.quota)
	scanned := 0
	for _, c := range candidates {
		if len(views) >= f.quota || scanned >= f.scanLimit {
			break
		}
		if _, skip := excluded[c.wallet]; skip {
			continue
		}
		scanned++

		stats, err := f.enrichment.Stats(ctx, c.wallet)
		if err != nil {
			return nil, fmt.Errorf("enrich stats: %w", err)
		}
		bal, err := f.enrichment.Balance(ctx, c.wallet)
		if err != nil {
			return nil, fmt.Errorf("enrich balance: %w", err)
		}

		// Real candidates must show some observed activity; fillers are
		// exempt and always count.
		if !c.filler && !hasActivity(stats, bal) {
			continue
		}

		views = append(views, buildView(c, stats, bal))
	}

	return views, nil
}

// orderedCandidates yields real submitted profiles newest first, then the
// declared fillers in fixed order, deduplicated by wallet.
func (f *FeedAssembler) orderedCandidates(ctx context.Context) ([]candidate, error) {
	real, err := f.store.ListIdentities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}

	seen := make(map[string]struct{}, len(real)+len(f.fillers))
	out := make([]candidate, 0, len(real)+len(f.fillers))
	for _, id := range real {
		if _, dup := seen[id.WalletAddress]; dup {
			continue
		}
		seen[id.WalletAddress] = struct{}{}
		out = append(out, candidate{wallet: id.WalletAddress, identity: id, filler: id.IsFiller})
	}
	for _, fp := range f.fillers {
		if _, dup := seen[fp.WalletAddress]; dup {
			continue
		}
		seen[fp.WalletAddress] = struct{}{}
		out = append(out, candidate{
			wallet:   fp.WalletAddress,
			identity: &model.Identity{WalletAddress: fp.WalletAddress, Bio: fp.Bio, IsFiller: true},
			filler:   true,
		})
	}
	return out, nil
}

func hasActivity(stats *model.TradingStats, bal *model.Balance) bool {
	if stats != nil && stats.TotalTrades > 0 && stats.Window != "" {
		return true
	}
	return bal != nil && bal.TotalUsd > 0
}

func buildView(c candidate, stats *model.TradingStats, bal *model.Balance) *model.ProfileView {
	v := &model.ProfileView{
		WalletAddress: c.wallet,
		IsFiller:      c.filler,
		Stats:         stats,
		Balance:       bal,
	}
	if id := c.identity; id != nil {
		v.TraderNumber = id.TraderNumber
		v.Bio = id.Bio
		v.Country = id.Country
		v.FavouriteCT = id.FavouriteCT
		v.WorstCT = id.WorstCT
		v.TradingVenue = id.TradingVenue
		v.AssetChoice6M = id.AssetChoice6M
		v.Twitter = id.Twitter
	}
	return v
}

// Ensure interface compliance
var _ useCases.FeedService = (*FeedAssembler)(nil)
