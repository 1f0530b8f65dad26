package models

import "time"

// Item event types published to the message queue.
const (
	EventItemReported = "item.reported"
	EventItemResolved = "item.resolved"
)

// ItemEvent is published whenever an item is reported or resolved.
type ItemEvent struct {
	Type   string    `json:"type"`
	ItemID string    `json:"itemId"`
	UserID string    `json:"userId"`
	Title  string    `json:"title"`
	At     time.Time `json:"at"`
}

// Session event types delivered on the current-user stream.
const (
	SessionSignedIn  = "signed_in"
	SessionSignedOut = "signed_out"
)

// SessionEvent describes a change in a user's session state.
type SessionEvent struct {
	Type      string    `json:"type"`
	UserID    string    `json:"userId"`
	Anonymous bool      `json:"anonymous"`
	At        time.Time `json:"at"`
}
