package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type draft struct {
	ctrl    *Controller
	mu      sync.Mutex
	touched time.Time
}

// Drafts keeps one in-progress controller per visitor. Nothing is saved
// beyond the process: drafts idle for longer than ttl are dropped.
type Drafts struct {
	notifier Notifier
	ttl      time.Duration
	now      func() time.Time

	mu     sync.Mutex
	drafts map[string]*draft
}

func NewDrafts(notifier Notifier, ttl time.Duration) *Drafts {
	return &Drafts{
		notifier: notifier,
		ttl:      ttl,
		now:      time.Now,
		drafts:   make(map[string]*draft),
	}
}

// Open returns the draft stored under id, or starts a new one when id is
// unknown or expired. The returned id must be used for later calls.
func (d *Drafts) Open(id string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.sweepLocked(now)

	if dr, ok := d.drafts[id]; ok {
		dr.touched = now
		return id
	}

	id = uuid.NewString()
	d.drafts[id] = &draft{ctrl: New(d.notifier), touched: now}
	return id
}

// With runs fn against the draft's controller while holding its lock. It
// reports false when the draft does not exist.
func (d *Drafts) With(id string, fn func(c *Controller)) bool {
	d.mu.Lock()
	dr, ok := d.drafts[id]
	if ok {
		dr.touched = d.now()
	}
	d.mu.Unlock()
	if !ok {
		return false
	}

	dr.mu.Lock()
	defer dr.mu.Unlock()
	fn(dr.ctrl)
	return true
}

// Discard drops the draft, e.g. after submission or cancellation.
func (d *Drafts) Discard(id string) {
	d.mu.Lock()
	delete(d.drafts, id)
	d.mu.Unlock()
}

func (d *Drafts) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.drafts)
}

func (d *Drafts) sweepLocked(now time.Time) {
	for id, dr := range d.drafts {
		if now.Sub(dr.touched) > d.ttl {
			delete(d.drafts, id)
		}
	}
}
