// Package registry implements the hierarchical configuration-tree engine:
// an in-memory, mutable key/value tree with symlinks, WoW64 redirection,
// change notification, and textual persistence, modeled on the Windows
// registry.
//
// The engine is single-threaded and cooperative by design: Engine
// serializes every operation behind one mutex, a single narrowly scoped
// lock rather than scattering package-level globals the way hivekit's
// namecache does.
package registry

import (
	"sync"
	"time"

	"github.com/joshuapare/hivekit/pkg/types"
)

// Engine owns the whole live tree: the key arena, the root, the
// notification lists, and the default security descriptor. It is the one
// value every command handler operates through.
type Engine struct {
	mu sync.Mutex

	arena  map[types.KeyID]*Key
	nextID types.KeyID
	root   types.KeyID

	notify *notifyEngine
	defSD  *SecurityDescriptor
	limits types.Limits

	// is64BitPrefix records whether this is a 64-bit prefix; it gates
	// whether WireWow64Mounts creates any WoW64 mount points.
	is64BitPrefix bool
}

// NewEngine creates an Engine with a freshly created, static root key named
// "REGISTRY". is64Bit records the prefix bitness; NewEngine itself wires no
// WoW64 mirrors, and WireWow64Mounts only wires them when is64Bit is true.
func NewEngine(is64Bit bool) *Engine {
	e := &Engine{
		arena:         make(map[types.KeyID]*Key),
		nextID:        1,
		notify:        newNotifyEngine(),
		defSD:         defaultSecurityDescriptor(),
		limits:        types.DefaultLimits(),
		is64BitPrefix: is64Bit,
	}
	root := e.allocKey(types.InvalidKeyID, "REGISTRY", types.Flags(0))
	e.root = root.id
	return e
}

// SetLimits replaces the engine's resource limits (subkey/value counts,
// value size, name lengths, tree depth, and total branch size), e.g. with
// types.RelaxedLimits() or types.StrictLimits() in place of the
// types.DefaultLimits() NewEngine starts with. Safe to call before the
// engine is exposed to any other goroutine; not meant as a live runtime
// knob.
func (e *Engine) SetLimits(l types.Limits) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.limits = l
}

// Limits returns the engine's current resource limits.
func (e *Engine) Limits() types.Limits {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.limits
}

// Root returns the root key's ID.
func (e *Engine) Root() types.KeyID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.root
}

// allocKey must be called with e.mu held.
func (e *Engine) allocKey(parent types.KeyID, name string, flags types.Flags) *Key {
	id := e.nextID
	e.nextID++
	k := newKey(id, parent, name, flags)
	e.arena[id] = k
	return k
}

// get must be called with e.mu held. It returns nil for unknown or
// tombstoned-and-collected ids; callers needing KEY_DELETED semantics check
// key.flags themselves via lookup paths that still hold a live *Key.
func (e *Engine) get(id types.KeyID) *Key {
	return e.arena[id]
}

// touch marks id and, per the dirty-propagation invariant,
// every non-volatile ancestor up to the root as Dirty, updates id's own
// modification timestamp, and walks the notification engine with kind.
// Must be called with e.mu held.
func (e *Engine) touch(id types.KeyID, kind types.ChangeKind) {
	var chain []types.KeyID
	cur := id
	first := true
	for cur != types.InvalidKeyID {
		k := e.get(cur)
		if k == nil {
			break
		}
		chain = append(chain, cur)
		if !k.flags.Has(types.FlagVolatile) {
			k.flags |= types.FlagDirty
		}
		if first {
			k.modif = types.Tick(time.Now())
			first = false
		}
		cur = k.parent
	}
	e.notify.walk(chain, kind)
}

// WireWow64Mounts creates the standard WoW64 mirrors for Software,
// Software\Classes, and the well-known COM-class roots under the given
// machine-hive root. It is a no-op if the engine was constructed with
// is64Bit=false.
func (e *Engine) WireWow64Mounts(machineRoot types.KeyID) error {
	if !e.is64BitPrefix {
		return nil
	}
	mounts := []string{
		`Software`,
		`Software\Classes`,
		`Software\Classes\CLSID`,
		`Software\Classes\Interface`,
		`Software\Classes\TypeLib`,
	}
	for _, path := range mounts {
		id, _, err := e.CreateKey(machineRoot, path, CreateOptions{})
		if err != nil {
			return err
		}
		if err := e.markWow64(id); err != nil {
			return err
		}
	}
	return nil
}

// Close tears down the whole live tree: every key reachable from the root
// is recursively tombstoned and its outstanding notifications are
// signaled, the same per-key cleanup DeleteKey(recursive) applies to an
// ordinary subtree, but without DeleteKey's single-root guard (which exists
// to keep the root un-deletable through the command surface, not to block
// the engine's own teardown). Safe to call exactly once, at shutdown.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	root := e.get(e.root)
	if root == nil || root.flags.Has(types.FlagDeleted) {
		return nil
	}
	childIDs := make([]types.KeyID, root.children.len())
	for i, c := range root.children.slice() {
		childIDs[i] = c.id
	}
	for _, cid := range childIDs {
		if err := e.deleteSubtreeLocked(cid); err != nil {
			return err
		}
	}
	root.flags |= types.FlagDeleted
	e.notify.RemoveAllForKey(root.id)
	return nil
}

// markWow64 sets FlagWow64 and FlagWowShare on id and ensures it owns a
// Wow6432Node child; because id carries FlagWowShare, lookups that land on
// that child redirect back to id for shared subkeys.
func (e *Engine) markWow64(id types.KeyID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := e.get(id)
	if k == nil {
		return types.ErrNotFound
	}
	k.flags |= types.FlagWow64 | types.FlagWowShare
	_, _, err := e.createChildLocked(id, "Wow6432Node", types.Flags(0))
	return err
}
