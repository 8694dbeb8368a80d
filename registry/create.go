package registry

import (
	"github.com/joshuapare/hivekit/pkg/types"
)

// CreateOptions controls create_key behavior.
type CreateOptions struct {
	Volatile bool
	Link     bool // CREATE_LINK: the terminal key becomes a SYMLINK key
	Class    string
}

// OpenOptions controls open_key behavior.
type OpenOptions struct {
	Attr types.LookupAttr
}

// CreateKey creates (or opens, if it already exists) the key at path under
// parent, creating missing intermediate ancestors with default options.
// It reports created=true only when the terminal segment did not already
// exist.
func (e *Engine) CreateKey(parent types.KeyID, path string, opts CreateOptions) (types.KeyID, bool, error) {
	if err := validatePathPrefix(path); err != nil {
		return 0, false, err
	}
	segs := tokenize(path)
	if len(segs) == 0 {
		return parent, false, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	flags := types.Flags(0)
	if opts.Volatile {
		flags |= types.FlagVolatile
	}

	depth := e.depthLocked(parent)
	cur := parent
	created := false
	var terminal *Key
	for i, seg := range segs {
		if len([]rune(seg)) > e.limits.MaxKeyNameLen {
			return 0, false, types.ErrNameTooLong
		}
		depth++
		if depth > e.limits.MaxTreeDepth {
			return 0, false, types.ErrInvalidParam
		}
		segFlags := types.Flags(0)
		if i == len(segs)-1 {
			segFlags = flags
		}
		child, wasCreated, err := e.createChildLocked(cur, seg, segFlags)
		if err != nil {
			return 0, false, err
		}
		cur = child.id
		terminal = child
		if i == len(segs)-1 {
			created = wasCreated
		}
	}
	if opts.Class != "" {
		terminal.class = opts.Class
	}
	if opts.Link {
		terminal.flags |= types.FlagSymlink
	}
	return cur, created, nil
}

// depthLocked counts the number of ancestors between id and the root,
// inclusive of id itself but exclusive of the root. Must be called with
// e.mu held.
func (e *Engine) depthLocked(id types.KeyID) int {
	depth := 0
	cur := id
	for cur != types.InvalidKeyID && cur != e.root {
		k := e.get(cur)
		if k == nil {
			break
		}
		depth++
		cur = k.parent
	}
	return depth
}

// createChildLocked creates (or returns the existing) direct child of
// parentID named name with the given flags, enforcing the volatile
// containment invariant. Must be called with e.mu held.
func (e *Engine) createChildLocked(parentID types.KeyID, name string, flags types.Flags) (*Key, bool, error) {
	parent := e.get(parentID)
	if parent == nil {
		return nil, false, types.ErrNotFound
	}
	if parent.flags.Has(types.FlagDeleted) {
		return nil, false, types.ErrKeyDeleted
	}
	if idx, ok := parent.findChildIndex(name); ok {
		return e.get(parent.children.at(idx).id), false, nil
	}
	if parent.flags.Has(types.FlagVolatile) && !flags.Has(types.FlagVolatile) {
		return nil, false, types.ErrMustBeVolatile
	}
	if parent.children.len() >= e.limits.MaxSubkeys {
		return nil, false, types.ErrInvalidParam
	}
	child := e.allocKey(parentID, name, flags)
	idx, _ := binarySearch(parent.children, func(c childEntry) int {
		return compareNamesFold(c.name, name)
	})
	parent.children.insertAt(idx, childEntry{name: name, id: child.id})
	e.touch(parentID, types.ChangeName)
	return child, true, nil
}

// OpenKey resolves path under parent without mutation.
func (e *Engine) OpenKey(parent types.KeyID, path string, opts OpenOptions) (types.KeyID, error) {
	if err := validatePathPrefix(path); err != nil {
		return 0, err
	}
	if len([]rune(path)) > maxOpenPathLen {
		return 0, types.ErrNameInvalid
	}
	e.mu.Lock()
	id, err := e.lookupLocked(parent, path, opts.Attr, 0)
	if err != nil {
		e.mu.Unlock()
		return 0, err
	}
	if id == types.InvalidKeyID {
		e.mu.Unlock()
		return 0, types.ErrNotFound
	}
	k := e.get(id)
	deleted := k.flags.Has(types.FlagDeleted)
	e.mu.Unlock()
	if deleted {
		return 0, types.ErrKeyDeleted
	}
	return id, nil
}

// DeleteKey deletes id. Non-recursive delete refuses a key with children
// (ACCESS_DENIED); recursive delete walks bottom-up so an aborted deletion
// (there is none in this engine, but the order matters for notification
// fidelity) leaves already-deleted descendants removed.
func (e *Engine) DeleteKey(id types.KeyID, recursive bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := e.get(id)
	if k == nil {
		return types.ErrNotFound
	}
	if k.flags.Has(types.FlagDeleted) {
		return types.ErrKeyDeleted
	}
	if k.id == e.root {
		return types.ErrAccessDenied
	}
	if k.children.len() > 0 {
		if !recursive {
			return types.ErrAccessDenied
		}
		// bottom-up: delete every descendant before unlinking self.
		childIDs := make([]types.KeyID, k.children.len())
		for i, c := range k.children.slice() {
			childIDs[i] = c.id
		}
		for _, cid := range childIDs {
			if err := e.deleteSubtreeLocked(cid); err != nil {
				return err
			}
		}
	}
	return e.unlinkAndDeleteLocked(k)
}

// deleteSubtreeLocked recursively tombstones id and all its descendants,
// without the non-recursive ACCESS_DENIED check (used internally once the
// caller has already committed to a recursive delete).
func (e *Engine) deleteSubtreeLocked(id types.KeyID) error {
	k := e.get(id)
	if k == nil {
		return nil
	}
	childIDs := make([]types.KeyID, k.children.len())
	for i, c := range k.children.slice() {
		childIDs[i] = c.id
	}
	for _, cid := range childIDs {
		if err := e.deleteSubtreeLocked(cid); err != nil {
			return err
		}
	}
	return e.unlinkAndDeleteLocked(k)
}

// unlinkAndDeleteLocked removes k from its parent's child array, marks it
// DELETED, clears its parent pointer, signals and frees its notifications,
// and marks the (former) parent DIRTY with a CHANGE_NAME notification
// The key itself is kept in the arena — outstanding
// handles may still reference it, and the handle table that would
// eventually release the last reference belongs to the caller, not the
// engine.
func (e *Engine) unlinkAndDeleteLocked(k *Key) error {
	parentID := k.parent
	if parent := e.get(parentID); parent != nil {
		if idx, ok := parent.findChildIndex(k.name); ok {
			parent.children.removeAt(idx)
		}
	}
	k.flags |= types.FlagDeleted
	k.parent = types.InvalidKeyID
	e.notify.RemoveAllForKey(k.id)
	if parentID != types.InvalidKeyID {
		e.touch(parentID, types.ChangeName)
	}
	return nil
}
