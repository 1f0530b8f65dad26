package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campustrace-backend-go/internal/models"
)

func TestMemoryItems_ListOrdering(t *testing.T) {
	store := NewMemoryStore()
	repo := store.Items()
	ctx := context.Background()

	first, err := repo.Create(ctx, &models.Item{Title: "first", Status: models.StatusOpen, UserID: "u1"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &models.Item{Title: "second", Status: models.StatusOpen, UserID: "u1"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Item{Title: "closed", Status: models.StatusClosed, UserID: "u1"})
	require.NoError(t, err)

	open, err := repo.List(ctx, OpenItemsQuery())
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, second, open[0].ID, "newest first")
	assert.Equal(t, first, open[1].ID)

	mine, err := repo.List(ctx, UserItemsQuery("u1"))
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}

func TestMemoryItems_Resolve(t *testing.T) {
	store := NewMemoryStore()
	repo := store.Items()
	ctx := context.Background()

	id, err := repo.Create(ctx, &models.Item{Status: models.StatusOpen, UserID: "owner"})
	require.NoError(t, err)

	_, err = repo.Resolve(ctx, id, "intruder")
	assert.ErrorIs(t, err, ErrForbidden)

	item, err := repo.Resolve(ctx, id, "owner")
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, item.Status)

	again, err := repo.Resolve(ctx, id, "owner")
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, again.Status)

	_, err = repo.Resolve(ctx, "missing", "owner")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryUsers_CreateOnce(t *testing.T) {
	repo := NewMemoryStore().Users()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{ID: "u1", Name: "Ada"}))
	err := repo.Create(ctx, &models.User{ID: "u1", Name: "Someone else"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	user, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
}
