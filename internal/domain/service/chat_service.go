package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"smartMatchApp/internal/domain/model"
	"smartMatchApp/internal/domain/repository"
	"smartMatchApp/internal/domain/useCases"
)

const defaultHistoryLimit = 50

// ChatRelay persists chat messages and fans them out to the room's live
// subscribers through the injected broadcaster.
type ChatRelay struct {
	store       repository.Store
	broadcaster useCases.Broadcaster
	emitter     useCases.EventEmitter
	log         *slog.Logger
	now         func() time.Time
}

func NewChatRelay(store repository.Store, broadcaster useCases.Broadcaster, emitter useCases.EventEmitter, log *slog.Logger) *ChatRelay {
	return &ChatRelay{
		store:       store,
		broadcaster: broadcaster,
		emitter:     emitter,
		log:         log,
		now:         time.Now,
	}
}

// SendMessage validates, persists and broadcasts a message. The stored text
// is trimmed; broadcasting happens only after the row is written.
func (c *ChatRelay) SendMessage(ctx context.Context, roomID, senderWallet, text string) (*model.Message, error) {
	if roomID == "" || senderWallet == "" {
		return nil, fmt.Errorf("%w: chat_room_id and sender_wallet are required", model.ErrValidation)
	}
	if err := ValidateMessageText(text); err != nil {
		return nil, err
	}

	msg := &model.Message{
		ID:           uuid.NewString(),
		ChatRoomID:   roomID,
		SenderWallet: senderWallet,
		Text:         strings.TrimSpace(text),
		CreatedAt:    c.now(),
	}
	if err := c.store.InsertMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}

	c.broadcaster.Broadcast(roomID, msg)

	if c.emitter != nil {
		c.emitter.Emit(&model.ActivityEvent{
			ID:        uuid.NewString(),
			Type:      model.EventMessage,
			Actor:     senderWallet,
			RoomID:    roomID,
			Timestamp: msg.CreatedAt,
		})
	}
	return msg, nil
}

// History returns up to limit messages of a room, oldest first.
func (c *ChatRelay) History(ctx context.Context, roomID string, limit int) ([]*model.Message, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return c.store.ListMessages(ctx, roomID, limit)
}

// Ensure interface compliance
var _ useCases.ChatService = (*ChatRelay)(nil)
