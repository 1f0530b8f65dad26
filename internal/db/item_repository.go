package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"campustrace-backend-go/internal/models"
)

const itemsCollection = "items"

// firestoreItemRepository implements the ItemRepository interface using Firestore.
type firestoreItemRepository struct {
	client *firestore.Client
	log    *zap.Logger
}

// NewFirestoreItemRepository creates a new instance of firestoreItemRepository.
func NewFirestoreItemRepository(client *firestore.Client, log *zap.Logger) ItemRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ItemRepository.")
	}
	return &firestoreItemRepository{client: client, log: log}
}

// Create adds a new item document with an auto-generated ID.
// createdAt is filled in by the server through the serverTimestamp tag.
func (r *firestoreItemRepository) Create(ctx context.Context, item *models.Item) (string, error) {
	docRef := r.client.Collection(itemsCollection).NewDoc()
	item.ID = docRef.ID

	wr, err := docRef.Create(ctx, item)
	if err != nil {
		return "", translate(err, "create", itemsCollection)
	}
	item.CreatedAt = wr.UpdateTime
	return docRef.ID, nil
}

// GetByID retrieves an item document by its ID.
func (r *firestoreItemRepository) GetByID(ctx context.Context, itemID string) (*models.Item, error) {
	if itemID == "" {
		return nil, fmt.Errorf("itemID cannot be empty: %w", ErrNotFound)
	}
	docSnap, err := r.client.Collection(itemsCollection).Doc(itemID).Get(ctx)
	if err != nil {
		return nil, translate(err, "get", itemsCollection+"/"+itemID)
	}
	return decodeItem(docSnap)
}

// List runs query against the items collection.
// Documents that fail to decode are logged and skipped.
func (r *firestoreItemRepository) List(ctx context.Context, query ItemQuery) ([]*models.Item, error) {
	iter := query.Apply(r.client.Collection(itemsCollection)).Documents(ctx)
	defer iter.Stop()

	items := make([]*models.Item, 0)
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, translate(err, "list", itemsCollection)
		}

		item, err := decodeItem(doc)
		if err != nil {
			r.log.Warn("Skipping undecodable item", zap.String("itemId", doc.Ref.ID), zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Resolve closes an item inside a transaction so the ownership check and the
// status write see the same document version. Only the status field is written.
func (r *firestoreItemRepository) Resolve(ctx context.Context, itemID, userID string) (*models.Item, error) {
	docRef := r.client.Collection(itemsCollection).Doc(itemID)

	var resolved *models.Item
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(docRef)
		if err != nil {
			return err
		}
		item, err := decodeItem(snap)
		if err != nil {
			return err
		}
		if item.UserID != userID {
			return ErrForbidden
		}
		resolved = item
		if !item.IsOpen() {
			return nil
		}
		resolved.Status = models.StatusClosed
		return tx.Update(docRef, []firestore.Update{{Path: "status", Value: models.StatusClosed}})
	})
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			return nil, fmt.Errorf("resolve %s/%s: %w", itemsCollection, itemID, ErrForbidden)
		}
		return nil, translate(err, "update", itemsCollection+"/"+itemID)
	}
	return resolved, nil
}

func decodeItem(snap *firestore.DocumentSnapshot) (*models.Item, error) {
	var item models.Item
	if err := snap.DataTo(&item); err != nil {
		return nil, fmt.Errorf("failed to decode item %s: %w", snap.Ref.ID, err)
	}
	item.ID = snap.Ref.ID
	return &item, nil
}
