package models

import "time"

// SavedItem is a user's bookmark of an item.
// At most one record exists per (UserID, ItemID); the save toggle keeps it that way.
type SavedItem struct {
	ID        string    `json:"id" firestore:"-"`
	UserID    string    `json:"userId" firestore:"userId"`
	ItemID    string    `json:"itemId" firestore:"itemId"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}
