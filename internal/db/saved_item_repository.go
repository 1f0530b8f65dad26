package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"campustrace-backend-go/internal/models"
)

const savedItemsCollection = "savedItems"

// firestoreSavedItemRepository implements the SavedItemRepository interface using Firestore.
type firestoreSavedItemRepository struct {
	client *firestore.Client
}

// NewFirestoreSavedItemRepository creates a new instance of firestoreSavedItemRepository.
func NewFirestoreSavedItemRepository(client *firestore.Client) SavedItemRepository {
	return &firestoreSavedItemRepository{client: client}
}

func (r *firestoreSavedItemRepository) Find(ctx context.Context, userID, itemID string) (*models.SavedItem, error) {
	query := r.client.Collection(savedItemsCollection).
		Where("userId", "==", userID).
		Where("itemId", "==", itemID).
		Limit(1)

	saved, err := r.collect(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(saved) == 0 {
		return nil, fmt.Errorf("saved item %s/%s: %w", userID, itemID, ErrNotFound)
	}
	return saved[0], nil
}

func (r *firestoreSavedItemRepository) Create(ctx context.Context, saved *models.SavedItem) (string, error) {
	docRef := r.client.Collection(savedItemsCollection).NewDoc()
	saved.ID = docRef.ID
	wr, err := docRef.Create(ctx, saved)
	if err != nil {
		return "", translate(err, "create", savedItemsCollection)
	}
	saved.CreatedAt = wr.UpdateTime
	return docRef.ID, nil
}

func (r *firestoreSavedItemRepository) Delete(ctx context.Context, savedID string) error {
	_, err := r.client.Collection(savedItemsCollection).Doc(savedID).Delete(ctx)
	return translate(err, "delete", savedItemsCollection+"/"+savedID)
}

func (r *firestoreSavedItemRepository) ListByUser(ctx context.Context, userID string) ([]*models.SavedItem, error) {
	return r.collect(ctx, r.client.Collection(savedItemsCollection).Where("userId", "==", userID))
}

func (r *firestoreSavedItemRepository) ListByItem(ctx context.Context, itemID string) ([]*models.SavedItem, error) {
	return r.collect(ctx, r.client.Collection(savedItemsCollection).Where("itemId", "==", itemID))
}

func (r *firestoreSavedItemRepository) collect(ctx context.Context, query firestore.Query) ([]*models.SavedItem, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	out := make([]*models.SavedItem, 0)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, translate(err, "list", savedItemsCollection)
		}
		var saved models.SavedItem
		if err := doc.DataTo(&saved); err != nil {
			return nil, fmt.Errorf("failed to decode saved item %s: %w", doc.Ref.ID, err)
		}
		saved.ID = doc.Ref.ID
		out = append(out, &saved)
	}
	return out, nil
}
