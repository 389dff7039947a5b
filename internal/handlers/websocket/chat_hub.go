package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"smartMatchApp/internal/domain/model"
	"smartMatchApp/internal/domain/useCases"
)

// wireMessage is the frame delivered to room subscribers.
type wireMessage struct {
	SenderWallet string    `json:"sender_wallet"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

// conn is the slice of *websocket.Conn the hub actually uses.
type conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// ChatHub implements the Broadcaster interface for room-scoped chat fan-out.
// Connections subscribe to exactly one room; a failed write unregisters the
// connection so one dead client never stalls the rest of the room.
type ChatHub struct {
	mu       sync.Mutex
	rooms    map[string]map[conn]struct{}
	upgrader websocket.Upgrader
	log      *slog.Logger
}

func NewChatHub(log *slog.Logger) *ChatHub {
	return &ChatHub{
		rooms:    make(map[string]map[conn]struct{}),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		log:      log,
	}
}

var _ useCases.Broadcaster = (*ChatHub)(nil)

func (h *ChatHub) register(roomID string, c conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[roomID]
	if !ok {
		room = make(map[conn]struct{})
		h.rooms[roomID] = room
	}
	room[c] = struct{}{}
}

func (h *ChatHub) unregister(roomID string, c conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(roomID, c)
}

// dropLocked removes a connection and the room itself once empty.
func (h *ChatHub) dropLocked(roomID string, c conn) {
	room, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, roomID)
	}
}

// Broadcast delivers a stored message to every subscriber of its room.
// Write failures close and drop the failed connection only.
func (h *ChatHub) Broadcast(roomID string, msg *model.Message) {
	data, err := json.Marshal(wireMessage{
		SenderWallet: msg.SenderWallet,
		Message:      msg.Text,
		CreatedAt:    msg.CreatedAt,
	})
	if err != nil {
		h.log.Error("failed to marshal chat message", slog.Any("error", err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[roomID] {
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Warn("websocket write error, dropping connection",
				slog.String("room", roomID), slog.Any("error", err))
			c.Close()
			h.dropLocked(roomID, c)
		}
	}
}

// RoomSize reports the current number of subscribers in a room.
func (h *ChatHub) RoomSize(roomID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[roomID])
}

// Handler returns an http.HandlerFunc accepting websocket subscriptions at
// /ws/chat/{room}.
func (h *ChatHub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := mux.Vars(r)["room"]
		if roomID == "" {
			http.Error(w, "room required", http.StatusBadRequest)
			return
		}

		wsConn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Error("websocket upgrade error", slog.Any("error", err))
			return
		}
		h.register(roomID, wsConn)
		h.log.Debug("chat subscriber joined", slog.String("room", roomID))

		// read loop keeps the connection alive and detects the close
		go func() {
			defer func() {
				h.unregister(roomID, wsConn)
				wsConn.Close()
			}()
			for {
				if _, _, err := wsConn.ReadMessage(); err != nil {
					break
				}
			}
		}()
	}
}
