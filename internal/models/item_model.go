package models

import "time"

// Item categories accepted by the portal.
const (
	CategoryElectronics = "electronics"
	CategoryApparel     = "apparel"
	CategoryStationery  = "stationery"
	CategoryKeys        = "keys"
	CategoryWallets     = "wallets"
	CategoryOther       = "other"
)

// Item types. A lost item is matched against found items and vice versa.
const (
	TypeLost  = "lost"
	TypeFound = "found"
)

// Item statuses. The only allowed transition is open -> closed.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Categories lists every valid category in display order.
var Categories = []string{
	CategoryElectronics,
	CategoryApparel,
	CategoryStationery,
	CategoryKeys,
	CategoryWallets,
	CategoryOther,
}

// Item is a lost or found report.
type Item struct {
	ID          string    `json:"id" firestore:"-"` // Document ID, auto-generated
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description" firestore:"description"`
	Category    string    `json:"category" firestore:"category"`
	Location    string    `json:"location" firestore:"location"`
	Type        string    `json:"type" firestore:"type"`
	Status      string    `json:"status" firestore:"status"`
	ImageURL    string    `json:"imageUrl" firestore:"imageUrl"` // data URI, hosted URL or ""
	UserID      string    `json:"userId" firestore:"userId"`     // Firebase Auth UID of the poster
	PosterName  string    `json:"posterName" firestore:"posterName"`
	PosterEmail string    `json:"posterEmail" firestore:"posterEmail"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// IsOpen reports whether the item is still unresolved.
func (i *Item) IsOpen() bool {
	return i.Status == StatusOpen
}

// OppositeType returns the type an item of the given type is matched against.
func OppositeType(itemType string) string {
	if itemType == TypeLost {
		return TypeFound
	}
	return TypeLost
}

// IsValidCategory reports whether c is one of Categories.
func IsValidCategory(c string) bool {
	for _, known := range Categories {
		if known == c {
			return true
		}
	}
	return false
}
