package intake

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultNoticeTTL bounds how long a failure notice stays visible when the
// user never dismisses it.
const DefaultNoticeTTL = 6 * time.Second

// Notice is one transient, dismissible failure notification.
type Notice struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifier is the single sink for user-visible submission failures. Every
// failed attempt pushes exactly one notice; notices can be dismissed
// explicitly and expire on their own after the TTL.
type Notifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	notices []Notice
	now     func() time.Time
}

func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	return &Notifier{ttl: ttl, now: time.Now}
}

func (n *Notifier) Push(message string) Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := n.now()
	nt := Notice{
		ID:        uuid.NewString(),
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(n.ttl),
	}
	n.notices = append(n.notices, nt)
	return nt
}

// Dismiss acknowledges a notice. Reports whether it was still present.
func (n *Notifier) Dismiss(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, nt := range n.notices {
		if nt.ID == id {
			n.notices = append(n.notices[:i], n.notices[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the notices that are neither dismissed nor expired, oldest
// first.
func (n *Notifier) Active() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := n.now()
	out := make([]Notice, 0, len(n.notices))
	for _, nt := range n.notices {
		if nt.ExpiresAt.After(now) {
			out = append(out, nt)
		}
	}
	return out
}

// Run purges expired notices until ctx is done.
func (n *Notifier) Run(ctx context.Context) error {
	t := time.NewTicker(n.ttl)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			n.purge()
		}
	}
}

func (n *Notifier) purge() {
	n.mu.Lock()
	defer n.mu.Unlock()
	now := n.now()
	kept := n.notices[:0]
	for _, nt := range n.notices {
		if nt.ExpiresAt.After(now) {
			kept = append(kept, nt)
		}
	}
	n.notices = kept
}
