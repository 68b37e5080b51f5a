package notify

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mr1hm/hydrosense/internal/wizard"
)

type Notification = wizard.Notification

const subscriberBuffer = 32

// Broadcaster fans toast notifications out to every live subscriber. It
// satisfies wizard.Notifier.
type Broadcaster struct {
	subscribers map[uint64]chan Notification
	nextID      atomic.Uint64
	mu          sync.RWMutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]chan Notification),
	}
}

func (b *Broadcaster) Subscribe() (uint64, <-chan Notification) {
	id := b.nextID.Add(1)
	ch := make(chan Notification, subscriberBuffer)

	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()

	return id, ch
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

func (b *Broadcaster) Notify(n Notification) {
	slog.Info("notification", "title", n.Title)

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- n:
		default:
			slog.Warn("dropping notification for slow subscriber", "subscriber_id", id)
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels so their streams exit.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}
