package model

import "time"

// ActivityEventType is the kind of activity an event records.
type ActivityEventType string

const (
	EventSwipe   ActivityEventType = "swipe"
	EventMatch   ActivityEventType = "match"
	EventMessage ActivityEventType = "message"
)

// ActivityEvent is an append-only record of something that happened in the
// system, emitted for downstream analytics. It never feeds back into the
// request path.
type ActivityEvent struct {
	ID        string            `json:"id"`
	Type      ActivityEventType `json:"type"`
	Actor     string            `json:"actor"`
	Target    string            `json:"target,omitempty"`
	RoomID    string            `json:"room_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
