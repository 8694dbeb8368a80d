package registry

import (
	"sync"

	"github.com/joshuapare/hivekit/pkg/types"
)

// Event is a one-shot signalable event associated with a notification
// subscription. Set is idempotent; Fired reports whether it has fired, and
// Done returns a channel that is closed when it fires.
type Event struct {
	mu     sync.Mutex
	fired  bool
	ch     chan struct{}
	onFire func()
}

// NewEvent creates an armed, unfired event. onFire (optional) runs exactly
// once, synchronously, the first time Set is called — a caller can use it to
// learn that a waiting client can be woken.
func NewEvent(onFire func()) *Event {
	return &Event{ch: make(chan struct{}), onFire: onFire}
}

// Set signals the event exactly once.
func (e *Event) Set() {
	e.mu.Lock()
	if e.fired {
		e.mu.Unlock()
		return
	}
	e.fired = true
	close(e.ch)
	fn := e.onFire
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Fired reports whether Set has been called.
func (e *Event) Fired() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fired
}

// Done returns a channel closed when Set fires.
func (e *Event) Done() <-chan struct{} { return e.ch }

// subscriberKey identifies a subscription by its owning process and the
// handle that process uses to name it; a notification belongs to exactly
// one key and at most one per (process, handle) pair.
type subscriberKey struct {
	process uint64
	handle  uint64
}

// subscription is a single armed notification.
type subscription struct {
	key     subscriberKey
	filter  types.ChangeKind
	subtree bool
	event   *Event // nil once signaled; record otherwise persists
}

// notifyEngine holds the per-key subscription lists. It
// is deliberately a small, explicit value owned by Engine rather than a
// package-level singleton — the exact opposite of hivekit's namecache
// global, chosen because this state is per-tree, not process-wide (see
// DESIGN.md).
type notifyEngine struct {
	mu   sync.Mutex
	subs map[types.KeyID][]*subscription
}

func newNotifyEngine() *notifyEngine {
	return &notifyEngine{subs: make(map[types.KeyID][]*subscription)}
}

// Arm installs a subscription on keyID, replacing any existing subscription
// for the same (process, handle) pair in place rather than duplicating it.
func (n *notifyEngine) Arm(keyID types.KeyID, process, handle uint64, filter types.ChangeKind, subtree bool, ev *Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	sk := subscriberKey{process: process, handle: handle}
	for _, s := range n.subs[keyID] {
		if s.key == sk {
			s.filter = filter
			s.subtree = subtree
			s.event = ev
			return
		}
	}
	n.subs[keyID] = append(n.subs[keyID], &subscription{key: sk, filter: filter, subtree: subtree, event: ev})
}

// Remove detaches the subscription owned by (process, handle) from keyID,
// e.g. on handle close.
func (n *notifyEngine) Remove(keyID types.KeyID, process, handle uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	sk := subscriberKey{process: process, handle: handle}
	list := n.subs[keyID]
	for i, s := range list {
		if s.key == sk {
			n.subs[keyID] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// RemoveAllForKey signals (if still armed) and drops every subscription
// owned by keyID; called when the key itself is destroyed.
func (n *notifyEngine) RemoveAllForKey(keyID types.KeyID) {
	n.mu.Lock()
	list := n.subs[keyID]
	delete(n.subs, keyID)
	n.mu.Unlock()
	for _, s := range list {
		if s.event != nil {
			s.event.Set()
		}
	}
}

// walk signals subscriptions along chain, which runs from the mutated key
// (chain[0]) up to the root. Subscriptions on the mutated key itself match
// any filtered change kind; subscriptions on ancestors match only when
// subtree is set and kind is not ChangeLastSet (value changes do not
// bubble).
func (n *notifyEngine) walk(chain []types.KeyID, kind types.ChangeKind) {
	n.mu.Lock()
	var toFire []*Event
	for i, id := range chain {
		for _, s := range n.subs[id] {
			if s.event == nil {
				continue
			}
			if i == 0 {
				if s.filter&kind != 0 {
					toFire = append(toFire, s.event)
					s.event = nil
				}
				continue
			}
			if s.subtree && kind != types.ChangeLastSet && s.filter&kind != 0 {
				toFire = append(toFire, s.event)
				s.event = nil
			}
		}
	}
	n.mu.Unlock()
	for _, ev := range toFire {
		ev.Set()
	}
}
