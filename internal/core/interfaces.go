package core

import (
	"context"

	"campustrace-backend-go/internal/models"
)

// ItemService defines the interface for lost-and-found item operations.
type ItemService interface {
	ReportItem(ctx context.Context, poster models.Principal, req models.ReportItemRequest) (*models.Item, error)
	// Feed returns open items, newest first unless filter.Sort is "oldest".
	Feed(ctx context.Context, filter models.FeedFilter) ([]*models.Item, error)
	UserItems(ctx context.Context, userID string) ([]*models.Item, error)
	GetItem(ctx context.Context, itemID string) (*models.Item, error)
	ResolveItem(ctx context.Context, userID, itemID string) (*models.Item, error)
	// SuggestMatches never returns matcher failures, only lookup errors for the subject item.
	SuggestMatches(ctx context.Context, itemID string) ([]models.MatchSuggestion, error)
}

// SavedService defines the interface for the per-user bookmark toggle.
type SavedService interface {
	Toggle(ctx context.Context, userID, itemID string) (bool, error)
	ListSaved(ctx context.Context, userID string) ([]*models.Item, error)
	IsSaved(ctx context.Context, userID, itemID string) (bool, error)
}

// UserService defines the interface for user-related operations.
type UserService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	// InitializeUser mirrors the caller into the users collection on first sign-in.
	// Returns the user and whether it was created; anonymous callers get (nil, false, nil).
	InitializeUser(ctx context.Context, principal models.Principal) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	SignOut(ctx context.Context, userID string) error
}

// Matcher ranks candidate items against a subject item.
type Matcher interface {
	Match(ctx context.Context, subject models.MatchCandidate, candidates []models.MatchCandidate) ([]models.MatchSuggestion, error)
}

// ImageSynthesizer produces an illustrative image for an item as a data URI.
type ImageSynthesizer interface {
	Synthesize(ctx context.Context, title, description, category string) (string, error)
}

// AuthAdmin is the subset of Firebase Authentication admin calls the services use.
type AuthAdmin interface {
	CreateUser(ctx context.Context, email, password, displayName string) (uid string, err error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// ItemEvents receives item lifecycle notifications.
type ItemEvents interface {
	Publish(ctx context.Context, event models.ItemEvent)
}
