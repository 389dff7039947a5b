package model

import "time"

// Message is an immutable chat message inside a room. Retrieval is
// newest-first at the storage layer, then reversed for delivery.
type Message struct {
	ID           string
	ChatRoomID   string
	SenderWallet string
	Text         string
	CreatedAt    time.Time
}
