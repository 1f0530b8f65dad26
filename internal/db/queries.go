package db

import (
	"cloud.google.com/go/firestore"

	"campustrace-backend-go/internal/models"
)

// CandidateLimit caps the candidate set handed to the matching model.
const CandidateLimit = 20

// Filter is an equality constraint on a single item field.
type Filter struct {
	Field string
	Value string
}

// ItemQuery describes a read against the items collection. It is built by the
// constructors below and can either be applied to Firestore or evaluated
// against an in-memory item.
type ItemQuery struct {
	Filters   []Filter
	OrderBy   string // empty means unordered
	Direction firestore.Direction
	Limit     int // 0 means unlimited
}

// OpenItemsQuery selects every open item, newest first.
func OpenItemsQuery() ItemQuery {
	return ItemQuery{
		Filters:   []Filter{{Field: "status", Value: models.StatusOpen}},
		OrderBy:   "createdAt",
		Direction: firestore.Desc,
	}
}

// UserItemsQuery selects every item posted by userID, newest first, regardless of status.
func UserItemsQuery(userID string) ItemQuery {
	return ItemQuery{
		Filters:   []Filter{{Field: "userId", Value: userID}},
		OrderBy:   "createdAt",
		Direction: firestore.Desc,
	}
}

// OpponentCandidatesQuery selects up to CandidateLimit open items of the type
// opposite to itemType. Results are unordered.
func OpponentCandidatesQuery(itemType string) ItemQuery {
	return ItemQuery{
		Filters: []Filter{
			{Field: "type", Value: models.OppositeType(itemType)},
			{Field: "status", Value: models.StatusOpen},
		},
		Limit: CandidateLimit,
	}
}

// Apply turns the descriptor into a Firestore query on col.
func (q ItemQuery) Apply(col *firestore.CollectionRef) firestore.Query {
	query := col.Query
	for _, f := range q.Filters {
		query = query.Where(f.Field, "==", f.Value)
	}
	if q.OrderBy != "" {
		query = query.OrderBy(q.OrderBy, q.Direction)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	return query
}

// Matches reports whether item satisfies every filter of the query.
func (q ItemQuery) Matches(item *models.Item) bool {
	for _, f := range q.Filters {
		if itemField(item, f.Field) != f.Value {
			return false
		}
	}
	return true
}

func itemField(item *models.Item, field string) string {
	switch field {
	case "status":
		return item.Status
	case "type":
		return item.Type
	case "userId":
		return item.UserID
	case "category":
		return item.Category
	default:
		return ""
	}
}
