package useCases

import (
	"context"

	"smartMatchApp/internal/domain/model"
)

// MatchService records swipe decisions and detects reciprocal interest.
type MatchService interface {
	RecordSwipe(ctx context.Context, actorWallet, targetWallet string, direction model.SwipeDirection) (*model.SwipeResult, error)
	ListMatches(ctx context.Context, wallet string) ([]*model.Match, error)
}

// FeedService assembles the bounded candidate feed for a requester.
type FeedService interface {
	BuildFeed(ctx context.Context, requesterWallet string) ([]*model.ProfileView, error)
}

// EnrichmentService fronts the external data provider with a TTL cache.
type EnrichmentService interface {
	Stats(ctx context.Context, wallet string) (*model.TradingStats, error)
	Balance(ctx context.Context, wallet string) (*model.Balance, error)
	InvalidateAll() int
	EvictExpired() int
}

// ChatService persists messages and returns room history.
type ChatService interface {
	SendMessage(ctx context.Context, roomID, senderWallet, text string) (*model.Message, error)
	History(ctx context.Context, roomID string, limit int) ([]*model.Message, error)
}

// Broadcaster fans persisted messages out to a room's live subscribers.
type Broadcaster interface {
	Broadcast(roomID string, msg *model.Message)
}

// EventEmitter publishes activity events for downstream analytics. Emitting
// must never block or fail the request path.
type EventEmitter interface {
	Emit(ev *model.ActivityEvent)
}
