package session

import (
	"sync"
	"time"

	"jukebox/internal/resolver"
)

// DefaultSelectTimeout is how long a search result set stays answerable.
const DefaultSelectTimeout = 60 * time.Second

// SelectionBroker correlates a user's pending search with their numeric
// follow-up. Keyed by user so one member's reply can never consume another
// member's search in the same guild. Expiry is lazy: stale entries are swept
// on every Open/Resolve, so an expired selection is never handed out even if
// nothing else touched the broker in between.
type SelectionBroker struct {
	mu      sync.Mutex
	pending map[string]*pendingSelection
	timeout time.Duration
	now     func() time.Time
}

type pendingSelection struct {
	candidates []resolver.Track
	createdAt  time.Time
}

func NewSelectionBroker(timeout time.Duration) *SelectionBroker {
	if timeout <= 0 {
		timeout = DefaultSelectTimeout
	}
	return &SelectionBroker{
		pending: make(map[string]*pendingSelection),
		timeout: timeout,
		now:     time.Now,
	}
}

// Open records candidates for the user, silently replacing any earlier
// selection they had open.
func (b *SelectionBroker) Open(userID string, candidates []resolver.Track) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expireLocked()
	b.pending[userID] = &pendingSelection{
		candidates: candidates,
		createdAt:  b.now(),
	}
}

// Resolve consumes the user's pending selection. pick is 1-based.
func (b *SelectionBroker) Resolve(userID string, pick int) (resolver.Track, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expireLocked()

	sel, ok := b.pending[userID]
	if !ok {
		return resolver.Track{}, ErrNoPendingSelection
	}
	if pick < 1 || pick > len(sel.candidates) {
		return resolver.Track{}, ErrOutOfRange
	}

	delete(b.pending, userID)
	return sel.candidates[pick-1], nil
}

// Has reports whether the user currently has a live selection open.
func (b *SelectionBroker) Has(userID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expireLocked()
	_, ok := b.pending[userID]
	return ok
}

// ExpireStale sweeps timed-out entries. Open and Resolve already sweep
// lazily; this exists for callers that want an explicit pass.
func (b *SelectionBroker) ExpireStale() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expireLocked()
}

func (b *SelectionBroker) expireLocked() {
	cutoff := b.now().Add(-b.timeout)
	for userID, sel := range b.pending {
		if sel.createdAt.Before(cutoff) {
			delete(b.pending, userID)
		}
	}
}
