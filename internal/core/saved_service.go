package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"campustrace-backend-go/internal/db"
	"campustrace-backend-go/internal/models"
)

type savedService struct {
	saved db.SavedItemRepository
	items db.ItemRepository
	log   *zap.Logger
}

// NewSavedService creates a new SavedService instance.
func NewSavedService(saved db.SavedItemRepository, items db.ItemRepository, log *zap.Logger) SavedService {
	return &savedService{saved: saved, items: items, log: log}
}

// Toggle saves the item for userID, or removes the save if one exists.
// It reports the state after the call.
//
// The find and the write are two separate store calls, so two concurrent
// toggles for the same pair can both create a record. ListSaved and IsSaved
// tolerate the duplicate; the next toggle removes one of them.
func (s *savedService) Toggle(ctx context.Context, userID, itemID string) (bool, error) {
	if userID == "" || itemID == "" {
		return false, fmt.Errorf("%w: user and item are required", ErrValidation)
	}
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return false, ErrItemNotFound
		}
		return false, fmt.Errorf("failed to get item '%s': %w", itemID, err)
	}

	existing, err := s.saved.Find(ctx, userID, itemID)
	switch {
	case err == nil:
		if err := s.saved.Delete(ctx, existing.ID); err != nil {
			return true, fmt.Errorf("failed to remove saved item: %w", err)
		}
		return false, nil
	case errors.Is(err, db.ErrNotFound):
		if _, err := s.saved.Create(ctx, &models.SavedItem{UserID: userID, ItemID: itemID}); err != nil {
			return false, fmt.Errorf("failed to save item: %w", err)
		}
		return true, nil
	default:
		return false, fmt.Errorf("failed to look up saved item: %w", err)
	}
}

// ListSaved returns the items userID has saved, most recently saved first.
// Items that no longer exist are skipped.
func (s *savedService) ListSaved(ctx context.Context, userID string) ([]*models.Item, error) {
	records, err := s.saved.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved items for user '%s': %w", userID, err)
	}

	out := make([]*models.Item, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if seen[rec.ItemID] {
			continue
		}
		seen[rec.ItemID] = true

		item, err := s.items.GetByID(ctx, rec.ItemID)
		if errors.Is(err, db.ErrNotFound) {
			s.log.Debug("Skipping saved record for missing item", zap.String("itemID", rec.ItemID))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get saved item '%s': %w", rec.ItemID, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *savedService) IsSaved(ctx context.Context, userID, itemID string) (bool, error) {
	_, err := s.saved.Find(ctx, userID, itemID)
	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up saved item: %w", err)
	}
	return true, nil
}
