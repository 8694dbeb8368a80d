package registry

import "github.com/joshuapare/hivekit/pkg/types"

// SetClass sets id's class name, used by the text persister when a #class
// keyopt follows a key's section header.
func (e *Engine) SetClass(id types.KeyID, class string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := e.get(id)
	if k == nil {
		return types.ErrNotFound
	}
	k.class = class
	return nil
}

// SetModifTicks overrides id's last-write timestamp, used when a #time
// keyopt (or a section's trailing decimal epoch) is read back.
func (e *Engine) SetModifTicks(id types.KeyID, ticks uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := e.get(id)
	if k == nil {
		return types.ErrNotFound
	}
	k.modif = ticks
	return nil
}

// MarkSymlink sets the SYMLINK flag on id, used when a #link keyopt
// follows a key's section header.
func (e *Engine) MarkSymlink(id types.KeyID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := e.get(id)
	if k == nil {
		return types.ErrNotFound
	}
	k.flags |= types.FlagSymlink
	return nil
}

// IsDirty reports whether id carries the DIRTY flag.
func (e *Engine) IsDirty(id types.KeyID) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := e.get(id)
	if k == nil {
		return false, types.ErrNotFound
	}
	return k.flags.Has(types.FlagDirty), nil
}

// ClearDirtySubtree clears DIRTY on id and every descendant, called by the
// save scheduler after a successful write of the branch rooted at id.
func (e *Engine) ClearDirtySubtree(id types.KeyID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := e.get(id)
	if k == nil {
		return types.ErrNotFound
	}
	e.clearDirtyLocked(k)
	return nil
}

func (e *Engine) clearDirtyLocked(k *Key) {
	k.flags &^= types.FlagDirty
	for _, c := range k.children.slice() {
		if child := e.get(c.id); child != nil {
			e.clearDirtyLocked(child)
		}
	}
}
