package db

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"campustrace-backend-go/internal/models"
)

// MemoryStore is an in-process stand-in for the three Firestore collections.
// It honours the same query descriptors and error values as the Firestore
// repositories and is what the service and API tests run against.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]*models.Item
	saved map[string]*models.SavedItem
	users map[string]*models.User
	// order keeps insertion order so unordered queries are deterministic.
	order []string
	now   func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]*models.Item),
		saved: make(map[string]*models.SavedItem),
		users: make(map[string]*models.User),
		now:   time.Now,
	}
}

// Items returns an ItemRepository view of the store.
func (s *MemoryStore) Items() ItemRepository { return memoryItems{s} }

// SavedItems returns a SavedItemRepository view of the store.
func (s *MemoryStore) SavedItems() SavedItemRepository { return memorySaved{s} }

// Users returns a UserRepository view of the store.
func (s *MemoryStore) Users() UserRepository { return memoryUsers{s} }

type memoryItems struct{ s *MemoryStore }

func (m memoryItems) Create(_ context.Context, item *models.Item) (string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	item.ID = uuid.NewString()
	// Mimic serverTimestamp: strictly increasing so ordering is stable in tests.
	item.CreatedAt = m.s.now().Add(time.Duration(len(m.s.order)) * time.Millisecond)
	stored := *item
	m.s.items[item.ID] = &stored
	m.s.order = append(m.s.order, item.ID)
	return item.ID, nil
}

func (m memoryItems) GetByID(_ context.Context, itemID string) (*models.Item, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	item, ok := m.s.items[itemID]
	if !ok {
		return nil, fmt.Errorf("get %s/%s: %w", itemsCollection, itemID, ErrNotFound)
	}
	cp := *item
	return &cp, nil
}

func (m memoryItems) List(_ context.Context, query ItemQuery) ([]*models.Item, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	out := make([]*models.Item, 0)
	for _, id := range m.s.order {
		item := m.s.items[id]
		if query.Matches(item) {
			cp := *item
			out = append(out, &cp)
		}
	}
	if query.OrderBy == "createdAt" {
		sort.SliceStable(out, func(i, j int) bool {
			if query.Direction == firestore.Desc {
				return out[i].CreatedAt.After(out[j].CreatedAt)
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	}
	if query.Limit > 0 && len(out) > query.Limit {
		out = out[:query.Limit]
	}
	return out, nil
}

func (m memoryItems) Resolve(_ context.Context, itemID, userID string) (*models.Item, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	item, ok := m.s.items[itemID]
	if !ok {
		return nil, fmt.Errorf("update %s/%s: %w", itemsCollection, itemID, ErrNotFound)
	}
	if item.UserID != userID {
		return nil, fmt.Errorf("resolve %s/%s: %w", itemsCollection, itemID, ErrForbidden)
	}
	if item.IsOpen() {
		item.Status = models.StatusClosed
	}
	cp := *item
	return &cp, nil
}

type memorySaved struct{ s *MemoryStore }

func (m memorySaved) Find(_ context.Context, userID, itemID string) (*models.SavedItem, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, saved := range m.s.saved {
		if saved.UserID == userID && saved.ItemID == itemID {
			cp := *saved
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("saved item %s/%s: %w", userID, itemID, ErrNotFound)
}

func (m memorySaved) Create(_ context.Context, saved *models.SavedItem) (string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	saved.ID = uuid.NewString()
	saved.CreatedAt = m.s.now()
	cp := *saved
	m.s.saved[saved.ID] = &cp
	return saved.ID, nil
}

func (m memorySaved) Delete(_ context.Context, savedID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	delete(m.s.saved, savedID)
	return nil
}

func (m memorySaved) ListByUser(_ context.Context, userID string) ([]*models.SavedItem, error) {
	return m.filter(func(s *models.SavedItem) bool { return s.UserID == userID }), nil
}

func (m memorySaved) ListByItem(_ context.Context, itemID string) ([]*models.SavedItem, error) {
	return m.filter(func(s *models.SavedItem) bool { return s.ItemID == itemID }), nil
}

func (m memorySaved) filter(keep func(*models.SavedItem) bool) []*models.SavedItem {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	out := make([]*models.SavedItem, 0)
	for _, saved := range m.s.saved {
		if keep(saved) {
			cp := *saved
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

type memoryUsers struct{ s *MemoryStore }

func (m memoryUsers) GetByID(_ context.Context, userID string) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	user, ok := m.s.users[userID]
	if !ok {
		return nil, fmt.Errorf("get %s/%s: %w", usersCollection, userID, ErrNotFound)
	}
	cp := *user
	return &cp, nil
}

func (m memoryUsers) Create(_ context.Context, user *models.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.users[user.ID]; ok {
		return fmt.Errorf("create %s/%s: %w", usersCollection, user.ID, ErrAlreadyExists)
	}
	user.CreatedAt = m.s.now()
	cp := *user
	m.s.users[user.ID] = &cp
	return nil
}
