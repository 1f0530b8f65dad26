package models

import "time"

// User mirrors a Firebase Auth account into the users collection.
// It is written once, on first sign-in, and never updated afterwards.
type User struct {
	ID           string    `json:"id" firestore:"-"` // Firebase Auth UID, will be the document ID
	Name         string    `json:"name" firestore:"name"`
	Email        string    `json:"email" firestore:"email"`
	ProfileImage string    `json:"profileImage,omitempty" firestore:"profileImage"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}

// Principal is the authenticated caller as seen by the auth middleware.
type Principal struct {
	UID       string
	Email     string
	Name      string
	Picture   string
	Anonymous bool
}

// DisplayName returns the name to show on items posted by p.
func (p Principal) DisplayName() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.Anonymous:
		return "Guest"
	case p.Email != "":
		return p.Email
	default:
		return "Anonymous"
	}
}
