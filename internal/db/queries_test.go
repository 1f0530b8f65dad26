package db

import (
	"fmt"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"

	"campustrace-backend-go/internal/models"
)

func TestOpenItemsQuery(t *testing.T) {
	q := OpenItemsQuery()

	assert.Equal(t, "createdAt", q.OrderBy)
	assert.Equal(t, firestore.Desc, q.Direction)
	assert.Zero(t, q.Limit)
	assert.True(t, q.Matches(&models.Item{Status: models.StatusOpen, Type: models.TypeLost}))
	assert.False(t, q.Matches(&models.Item{Status: models.StatusClosed}))
}

func TestUserItemsQuery(t *testing.T) {
	q := UserItemsQuery("u1")

	assert.Equal(t, "createdAt", q.OrderBy)
	assert.True(t, q.Matches(&models.Item{UserID: "u1", Status: models.StatusOpen}))
	assert.True(t, q.Matches(&models.Item{UserID: "u1", Status: models.StatusClosed}), "status is not filtered")
	assert.False(t, q.Matches(&models.Item{UserID: "u2", Status: models.StatusOpen}))
}

func TestOpponentCandidatesQuery(t *testing.T) {
	var items []*models.Item
	for i := 0; i < 30; i++ {
		items = append(items,
			&models.Item{ID: fmt.Sprintf("lost-%d", i), Type: models.TypeLost, Status: models.StatusOpen},
			&models.Item{ID: fmt.Sprintf("found-%d", i), Type: models.TypeFound, Status: models.StatusOpen},
			&models.Item{ID: fmt.Sprintf("closed-%d", i), Type: models.TypeFound, Status: models.StatusClosed},
		)
	}

	for _, subjectType := range []string{models.TypeLost, models.TypeFound} {
		t.Run(subjectType, func(t *testing.T) {
			q := OpponentCandidatesQuery(subjectType)
			assert.Empty(t, q.OrderBy, "candidate query is unordered")
			assert.Equal(t, CandidateLimit, q.Limit)

			got := runInMemory(q, items)
			assert.LessOrEqual(t, len(got), 20)
			assert.NotEmpty(t, got)
			for _, item := range got {
				assert.NotEqual(t, subjectType, item.Type)
				assert.Equal(t, models.StatusOpen, item.Status)
			}
		})
	}
}

func TestOpponentCandidatesQuery_UnknownType(t *testing.T) {
	q := OpponentCandidatesQuery("misplaced")
	assert.True(t, q.Matches(&models.Item{Type: models.TypeLost, Status: models.StatusOpen}))
}

// runInMemory evaluates filters and limit the way Firestore would.
func runInMemory(q ItemQuery, items []*models.Item) []*models.Item {
	var out []*models.Item
	for _, item := range items {
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
		if q.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}
