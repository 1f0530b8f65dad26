package models

// ReportItemRequest represents the request body for reporting a lost or found item.
type ReportItemRequest struct {
	Title       string `json:"title" binding:"required" validate:"required"`
	Description string `json:"description" binding:"required" validate:"required"`
	Category    string `json:"category" binding:"required" validate:"required,oneof=electronics apparel stationery keys wallets other"`
	Location    string `json:"location" binding:"required" validate:"required"`
	Type        string `json:"type" binding:"required" validate:"required,oneof=lost found"`
	Photo       string `json:"photo,omitempty"` // Optional data URI or hosted URL supplied by the poster
}

// RegisterRequest represents the request body for email/password registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name,omitempty"`
}

// FeedFilter narrows the open-items feed. Empty fields mean "any".
type FeedFilter struct {
	Category string
	Type     string
	Sort     string // "newest" (default) or "oldest"
}
