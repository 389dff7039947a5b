package model

import "time"

// SwipeDirection is the direction of a swipe decision.
type SwipeDirection string

const (
	SwipeLeft  SwipeDirection = "left"
	SwipeRight SwipeDirection = "right"
)

// Valid reports whether the direction is one of the two known values.
func (d SwipeDirection) Valid() bool {
	return d == SwipeLeft || d == SwipeRight
}

// Swipe is a one-way interest signal from an actor toward a target wallet.
// The log is append-only; the same actor may swipe the same target again.
type Swipe struct {
	ID           string
	ActorID      string
	TargetWallet string
	Direction    SwipeDirection
	CreatedAt    time.Time
}

// SwipeResult is what a recorded swipe yields: whether a match came out of
// it and, if so, the chat room that was opened.
type SwipeResult struct {
	MatchCreated bool
	ChatRoomID   string
}
