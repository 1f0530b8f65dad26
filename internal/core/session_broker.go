package core

import (
	"sync"

	"go.uber.org/zap"

	"campustrace-backend-go/internal/models"
)

const subscriberBuffer = 8

// SessionBroker fans session events out to the streams subscribed for a user.
type SessionBroker struct {
	mu   sync.Mutex
	subs map[string]map[uint64]chan models.SessionEvent
	next uint64
	log  *zap.Logger
}

// NewSessionBroker creates an empty SessionBroker.
func NewSessionBroker(log *zap.Logger) *SessionBroker {
	return &SessionBroker{
		subs: make(map[string]map[uint64]chan models.SessionEvent),
		log:  log,
	}
}

// Subscribe returns a channel of events for uid and a function that ends the
// subscription and closes the channel. The function is safe to call twice.
func (b *SessionBroker) Subscribe(uid string) (<-chan models.SessionEvent, func()) {
	ch := make(chan models.SessionEvent, subscriberBuffer)

	b.mu.Lock()
	id := b.next
	b.next++
	if b.subs[uid] == nil {
		b.subs[uid] = make(map[uint64]chan models.SessionEvent)
	}
	b.subs[uid][id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[uid], id)
			if len(b.subs[uid]) == 0 {
				delete(b.subs, uid)
			}
			close(ch)
		})
	}
}

// Publish delivers event to every subscriber of event.UserID.
// Slow subscribers whose buffer is full miss the event.
func (b *SessionBroker) Publish(event models.SessionEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[event.UserID] {
		select {
		case ch <- event:
		default:
			b.log.Warn("Dropping session event for slow subscriber",
				zap.String("userID", event.UserID), zap.String("type", event.Type))
		}
	}
}

// Subscribers returns the number of open subscriptions for uid.
func (b *SessionBroker) Subscribers(uid string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[uid])
}
