package registry

import "github.com/joshuapare/hivekit/pkg/types"

// SetNotification arms (or replaces) a change notification on id for the
// given (process, handle) pair.
// A successful call always "succeeds arming" — the reply carries PENDING,
// which callers surface as types.ErrPending so the wire error field matches
// the documented behavior of a deferred, one-shot notification.
func (e *Engine) SetNotification(id types.KeyID, process, handle uint64, filter types.ChangeKind, subtree bool, ev *Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := e.get(id)
	if k == nil {
		return types.ErrNotFound
	}
	if k.flags.Has(types.FlagDeleted) {
		return types.ErrKeyDeleted
	}
	e.notify.Arm(id, process, handle, filter, subtree, ev)
	return types.ErrPending
}

// RemoveNotification detaches a subscription, e.g. on handle close.
func (e *Engine) RemoveNotification(id types.KeyID, process, handle uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.notify.Remove(id, process, handle)
}
