// Package service implements the domain services on top of the repository
// interfaces. It depends only on domain models and interfaces, never on
// infrastructure implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"smartMatchApp/internal/domain/model"
	"smartMatchApp/internal/domain/repository"
	"smartMatchApp/internal/domain/useCases"
)

// MatchEngine records swipe decisions and detects reciprocal right swipes.
// Match creation is idempotent per unordered wallet pair: an existing match
// is returned instead of a second one being created, and an insert that
// loses a race re-reads the winner's row.
type MatchEngine struct {
	store   repository.Store
	emitter useCases.EventEmitter
	log     *slog.Logger
	now     func() time.Time
}

func NewMatchEngine(store repository.Store, emitter useCases.EventEmitter, log *slog.Logger) *MatchEngine {
	return &MatchEngine{
		store:   store,
		emitter: emitter,
		log:     log,
		now:     time.Now,
	}
}

// RecordSwipe appends a swipe decision for the actor and, on a reciprocal
// right swipe, opens exactly one match with a fresh chat room. The actor
// must be a known identity; the target may be any wallet address.
func (e *MatchEngine) RecordSwipe(ctx context.Context, actorWallet, targetWallet string, direction model.SwipeDirection) (*model.SwipeResult, error) {
	if !direction.Valid() {
		return nil, fmt.Errorf("%w: direction must be left or right", model.ErrValidation)
	}
	if targetWallet == "" || targetWallet == actorWallet {
		return nil, fmt.Errorf("%w: invalid swipe target", model.ErrValidation)
	}

	actor, err := e.store.GetIdentity(ctx, actorWallet)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}

	swipe := &model.Swipe{
		ID:           uuid.NewString(),
		ActorID:      actor.ID,
		TargetWallet: targetWallet,
		Direction:    direction,
		CreatedAt:    e.now(),
	}
	if err := e.store.InsertSwipe(ctx, swipe); err != nil {
		return nil, fmt.Errorf("insert swipe: %w", err)
	}
	e.emit(&model.ActivityEvent{
		ID:        uuid.NewString(),
		Type:      model.EventSwipe,
		Actor:     actorWallet,
		Target:    targetWallet,
		Timestamp: swipe.CreatedAt,
	})

	if direction != model.SwipeRight {
		return &model.SwipeResult{}, nil
	}

	// A pair that already matched keeps its room regardless of how many
	// further swipes follow.
	if existing, err := e.store.FindMatchByPair(ctx, actorWallet, targetWallet); err == nil {
		return &model.SwipeResult{MatchCreated: true, ChatRoomID: existing.ChatRoomID}, nil
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("find match: %w", err)
	}

	reciprocal, err := e.store.HasReciprocalRightSwipe(ctx, actorWallet, targetWallet)
	if err != nil {
		return nil, fmt.Errorf("check reciprocal swipe: %w", err)
	}
	if !reciprocal {
		return &model.SwipeResult{}, nil
	}

	match := &model.Match{
		ID:         uuid.NewString(),
		WalletA:    actorWallet,
		WalletB:    targetWallet,
		ChatRoomID: uuid.NewString(),
		CreatedAt:  e.now(),
	}
	if err := e.store.InsertMatch(ctx, match); err != nil {
		// Lost the race against the counterparty's swipe: the pair's
		// unique constraint rejected us, adopt the winning row.
		if winner, ferr := e.store.FindMatchByPair(ctx, actorWallet, targetWallet); ferr == nil {
			return &model.SwipeResult{MatchCreated: true, ChatRoomID: winner.ChatRoomID}, nil
		}
		return nil, fmt.Errorf("insert match: %w", err)
	}

	e.log.Info("match created",
		slog.String("wallet_a", actorWallet),
		slog.String("wallet_b", targetWallet),
		slog.String("room_id", match.ChatRoomID),
	)
	e.emit(&model.ActivityEvent{
		ID:        uuid.NewString(),
		Type:      model.EventMatch,
		Actor:     actorWallet,
		Target:    targetWallet,
		RoomID:    match.ChatRoomID,
		Timestamp: match.CreatedAt,
	})

	return &model.SwipeResult{MatchCreated: true, ChatRoomID: match.ChatRoomID}, nil
}

// ListMatches returns all matches for a wallet, newest first.
func (e *MatchEngine) ListMatches(ctx context.Context, wallet string) ([]*model.Match, error) {
	return e.store.ListMatches(ctx, wallet)
}

func (e *MatchEngine) emit(ev *model.ActivityEvent) {
	if e.emitter != nil {
		e.emitter.Emit(ev)
	}
}

// Ensure interface compliance
var _ useCases.MatchService = (*MatchEngine)(nil)
