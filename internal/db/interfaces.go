package db

import (
	"context"

	"campustrace-backend-go/internal/models"
)

// ItemRepository defines the interface for item data storage operations.
// There is deliberately no Update or Delete: the only mutation is Resolve.
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) (string, error) // Returns new item ID
	GetByID(ctx context.Context, itemID string) (*models.Item, error)
	List(ctx context.Context, query ItemQuery) ([]*models.Item, error)
	// Resolve flips status open -> closed when userID owns the item.
	// It returns ErrForbidden for non-owners and is a no-op for closed items.
	Resolve(ctx context.Context, itemID, userID string) (*models.Item, error)
}

// SavedItemRepository defines the interface for bookmark storage operations.
type SavedItemRepository interface {
	// Find returns the first record for the pair or ErrNotFound.
	Find(ctx context.Context, userID, itemID string) (*models.SavedItem, error)
	Create(ctx context.Context, saved *models.SavedItem) (string, error)
	Delete(ctx context.Context, savedID string) error
	ListByUser(ctx context.Context, userID string) ([]*models.SavedItem, error)
	ListByItem(ctx context.Context, itemID string) ([]*models.SavedItem, error)
}

// UserRepository defines the interface for user data storage operations.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	// Create fails with ErrAlreadyExists if the document is already present.
	Create(ctx context.Context, user *models.User) error
}
