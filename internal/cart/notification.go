package cart

import (
	"sync"
	"time"

	"github.com/wichananm65/shopease/internal/product"
)

const DefaultNotificationTTL = 3 * time.Second

// Notification is the transient "added to cart" message. It is never persisted.
type Notification struct {
	Type      string          `json:"type"`
	Message   string          `json:"message"`
	Product   product.Product `json:"product"`
	ExpiresAt time.Time       `json:"expiresAt"`
}

// notifier holds at most one notification. Each show bumps the generation so a
// timer started for an older notification cannot clear a newer one.
type notifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	current *Notification
	gen     uint64
	timer   *time.Timer
}

func newNotifier(ttl time.Duration) *notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &notifier{ttl: ttl, now: time.Now}
}

func (n *notifier) show(p product.Product) Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.gen++
	gen := n.gen
	if n.timer != nil {
		n.timer.Stop()
	}
	note := Notification{
		Type:      "success",
		Message:   p.Name + " added to cart!",
		Product:   p,
		ExpiresAt: n.now().Add(n.ttl),
	}
	n.current = &note
	n.timer = time.AfterFunc(n.ttl, func() { n.expire(gen) })
	return note
}

func (n *notifier) expire(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.gen == gen {
		n.current = nil
		n.timer = nil
	}
}

func (n *notifier) dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gen++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.current = nil
}

func (n *notifier) get() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notification{}, false
	}
	return *n.current, true
}
