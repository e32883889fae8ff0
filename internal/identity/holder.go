package identity

import (
	"sync"

	"github.com/google/uuid"
	"github.com/luiscarvajal/velamart-backend/pkg/enums"
)

// Identity describes an authenticated principal as seen by the state layer.
type Identity struct {
	UserID    uuid.UUID
	Email     string
	FullName  string
	AvatarURL *string
	Role      enums.UserRole
}

// EventKind labels an identity transition.
type EventKind string

const (
	EventSignedIn  EventKind = "signed_in"
	EventSignedOut EventKind = "signed_out"
)

// Event is broadcast to subscribers whenever the held identity changes.
// For sign-out events Identity carries the principal that was cleared.
type Event struct {
	Kind     EventKind
	Identity Identity
}

// Holder is an injectable container for the current session identity.
// It owns the resolving flag used while a stored session is being
// restored, and fans out change events to subscribers over channels.
type Holder struct {
	mu          sync.RWMutex
	current     *Identity
	resolving   bool
	subscribers map[int]chan Event
	nextID      int
}

// NewHolder returns an empty holder with the resolving flag raised,
// mirroring the pre-restore state at process start.
func NewHolder() *Holder {
	return &Holder{
		resolving:   true,
		subscribers: make(map[int]chan Event),
	}
}

// Current returns the held identity, if any.
func (h *Holder) Current() (Identity, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return Identity{}, false
	}
	return *h.current, true
}

// Resolving reports whether session restoration is still in flight.
func (h *Holder) Resolving() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.resolving
}

// BeginResolve raises the resolving flag for an explicit re-resolution.
func (h *Holder) BeginResolve() {
	h.mu.Lock()
	h.resolving = true
	h.mu.Unlock()
}

// FinishResolve lowers the resolving flag without touching the identity.
// Used when restoration finds no stored session.
func (h *Holder) FinishResolve() {
	h.mu.Lock()
	h.resolving = false
	h.mu.Unlock()
}

// SignIn stores the identity, lowers the resolving flag, and notifies
// subscribers.
func (h *Holder) SignIn(id Identity) {
	h.mu.Lock()
	stored := id
	h.current = &stored
	h.resolving = false
	h.broadcastLocked(Event{Kind: EventSignedIn, Identity: id})
	h.mu.Unlock()
}

// SignOut clears the held identity unconditionally. Callers that fail to
// revoke the backend session still clear local state; the revocation
// error is theirs to report. Returns the identity that was cleared.
func (h *Holder) SignOut() (Identity, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.resolving = false
	if h.current == nil {
		return Identity{}, false
	}
	prev := *h.current
	h.current = nil
	h.broadcastLocked(Event{Kind: EventSignedOut, Identity: prev})
	return prev, true
}

// Subscribe registers a listener for identity transitions. The returned
// cancel func removes the subscription and closes the channel; callers
// must invoke it when done.
func (h *Holder) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	ch := make(chan Event, 8)
	h.subscribers[id] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if sub, ok := h.subscribers[id]; ok {
			delete(h.subscribers, id)
			close(sub)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// broadcastLocked delivers without blocking; a subscriber that stops
// draining its channel misses events rather than stalling mutations.
func (h *Holder) broadcastLocked(event Event) {
	for _, ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
