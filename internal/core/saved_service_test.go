package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"campustrace-backend-go/internal/db"
	"campustrace-backend-go/internal/models"
)

func TestToggle_AlternatesState(t *testing.T) {
	store := db.NewMemoryStore()
	ctx := context.Background()
	items := NewItemService(store.Items(), nil, nil, &recordingEvents{}, zap.NewNop())
	svc := NewSavedService(store.SavedItems(), store.Items(), zap.NewNop())

	item, err := items.ReportItem(ctx, alice, reportReq("Bottle", models.TypeLost))
	require.NoError(t, err)

	saved, err := svc.Toggle(ctx, "bob", item.ID)
	require.NoError(t, err)
	assert.True(t, saved)
	is, err := svc.IsSaved(ctx, "bob", item.ID)
	require.NoError(t, err)
	assert.True(t, is)

	saved, err = svc.Toggle(ctx, "bob", item.ID)
	require.NoError(t, err)
	assert.False(t, saved)
	is, err = svc.IsSaved(ctx, "bob", item.ID)
	require.NoError(t, err)
	assert.False(t, is)

	records, err := store.SavedItems().ListByUser(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestToggle_UnknownItem(t *testing.T) {
	store := db.NewMemoryStore()
	svc := NewSavedService(store.SavedItems(), store.Items(), zap.NewNop())

	_, err := svc.Toggle(context.Background(), "bob", "missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
	_, err = svc.Toggle(context.Background(), "", "missing")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListSaved_SkipsMissingAndDuplicates(t *testing.T) {
	store := db.NewMemoryStore()
	ctx := context.Background()
	items := NewItemService(store.Items(), nil, nil, &recordingEvents{}, zap.NewNop())
	svc := NewSavedService(store.SavedItems(), store.Items(), zap.NewNop())

	a, err := items.ReportItem(ctx, alice, reportReq("Bottle", models.TypeLost))
	require.NoError(t, err)
	b, err := items.ReportItem(ctx, alice, reportReq("Keys", models.TypeFound))
	require.NoError(t, err)

	_, err = svc.Toggle(ctx, "bob", a.ID)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, "bob", b.ID)
	require.NoError(t, err)
	// A lost race leaves a duplicate record and one pointing at a deleted item.
	_, err = store.SavedItems().Create(ctx, &models.SavedItem{UserID: "bob", ItemID: a.ID})
	require.NoError(t, err)
	_, err = store.SavedItems().Create(ctx, &models.SavedItem{UserID: "bob", ItemID: "gone"})
	require.NoError(t, err)

	list, err := svc.ListSaved(ctx, "bob")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids(list))

	list, err = svc.ListSaved(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, list)
}
